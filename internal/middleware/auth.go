package middleware

import (
	"errors"
	"strings"

	"github.com/joanri79/cine-log/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

var (
	errMissingToken   = errors.New("authorization header required")
	errHeaderFormat   = errors.New("invalid authorization header format")
	errInvalidToken   = errors.New("invalid or expired token")
	errMissingSubject = errors.New("invalid token structure - missing subject")
)

// ParseSubject validates an HS256 access token issued by the identity provider
// and returns its subject, which is the user id.
func ParseSubject(tokenString string) (string, error) {
	if cfg == nil {
		return "", errors.New("auth middleware not initialized")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	if cfg.JWTAudience != "" {
		opts = append(opts, jwt.WithAudience(cfg.JWTAudience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", errMissingSubject
	}
	return sub, nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errHeaderFormat
	}
	return parts[1], nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": err.Error(),
		"code":  "UNAUTHORIZED",
	})
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// The token subject is stored in c.Locals("userID") as a string.
func AuthRequired(c *fiber.Ctx) error {
	tokenString, err := bearerToken(c)
	if err != nil {
		return unauthorized(c, err)
	}

	userID, err := ParseSubject(tokenString)
	if err != nil {
		return unauthorized(c, err)
	}

	c.Locals("userID", userID)
	c.SetUserContext(WithUserID(c.UserContext(), userID))
	return c.Next()
}

// WebSocketAuthRequired accepts the token from the "token" query parameter,
// since browsers cannot set headers on a WebSocket upgrade.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		var err error
		if tokenString, err = bearerToken(c); err != nil {
			return unauthorized(c, err)
		}
	}

	userID, err := ParseSubject(tokenString)
	if err != nil {
		return unauthorized(c, err)
	}

	c.Locals("userID", userID)
	c.SetUserContext(WithUserID(c.UserContext(), userID))
	return c.Next()
}
