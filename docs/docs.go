// Package docs holds the OpenAPI description served at /api/swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/users/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["friends"],
                "summary": "Search users",
                "parameters": [{"type": "string", "name": "q", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Profile"}}}}
            }
        },
        "/friends": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List friends",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Profile"}}}}
            }
        },
        "/friends/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Friends activity feed",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.ActivityItem"}}}}
            }
        },
        "/friends/requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List incoming friend requests",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.FriendRequest"}}}}
            }
        },
        "/friends/requests/sent": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List outgoing pending requests",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.FriendRequest"}}}}
            }
        },
        "/friends/requests/{userId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Send friend request",
                "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friends/requests/{requestId}/accept": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Accept friend request",
                "parameters": [{"type": "integer", "name": "requestId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}
            }
        },
        "/friends/requests/{requestId}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Reject friend request",
                "parameters": [{"type": "integer", "name": "requestId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}
            }
        },
        "/friends/status/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Relation with another user",
                "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RelationStatus"}}}
            }
        },
        "/friends/{userId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Remove friend",
                "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Watch history",
                "parameters": [{"type": "string", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.WatchLogEntry"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["logs"],
                "summary": "Log a watch",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.WatchLogEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/logs/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Edit own watch entry",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Delete own watch entry",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/platforms": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Platform catalog",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/social/overview": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Friends and incoming requests",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Watch statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/content/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "Search movies and shows",
                "parameters": [{"type": "string", "name": "q", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}
            }
        },
        "/content/{type}/{tmdbId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "Content details",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "integer", "name": "tmdbId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.Profile": {
            "type": "object",
            "properties": {
                "contact": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "nickname": {"type": "string"},
                "surname": {"type": "string"}
            }
        },
        "models.FriendRequest": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "friend_id": {"type": "string"},
                "id": {"type": "integer"},
                "recipient": {"$ref": "#/definitions/models.Profile"},
                "requester": {"$ref": "#/definitions/models.Profile"},
                "status": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "models.RelationStatus": {
            "type": "object",
            "properties": {
                "request_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["none", "friends", "pending_sent", "pending_received"]}
            }
        },
        "models.ActivityItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "timestamp": {"type": "string"},
                "rating": {"type": "integer"},
                "comment": {"type": "string"},
                "owner": {"type": "object"},
                "content": {"type": "object"}
            }
        },
        "models.WatchLogEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "string"},
                "content_id": {"type": "integer"},
                "timestamp": {"type": "string"},
                "rating": {"type": "integer"},
                "platform": {"type": "string"},
                "comment": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8375",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "cine-log API",
	Description:      "Watch log and social graph API: friend requests, friends, activity feed and watch history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
