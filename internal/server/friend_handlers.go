package server

import (
	"github.com/joanri79/cine-log/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search?q=
// @Summary Search users
// @Description Find users by nickname or contact that the caller is not yet connected to. Queries shorter than three characters return an empty list.
// @Tags friends
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} models.Profile
// @Security BearerAuth
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.friendService.SearchUsers(c.UserContext(), c.Query("q"), userID))
}

// SendFriendRequest handles POST /api/friends/requests/:userId
// @Summary Send friend request
// @Tags friends
// @Produce json
// @Param userId path string true "Target user id"
// @Success 201 {object} models.Friendship
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{userId} [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	targetID, err := parseUserParam(c, "userId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.SendFriendRequest(ctx, userID, targetID)
	if err != nil {
		return respondError(c, err)
	}

	s.publishUserEvent(ctx, friendship.FriendID, notifications.EventFriendRequestReceived, friendRequestEvent{
		RequestID: friendship.ID,
		FromUser:  profilePtr(friendship.User),
	})
	s.publishUserEvent(ctx, friendship.UserID, notifications.EventFriendRequestSent, friendRequestEvent{
		RequestID: friendship.ID,
		ToUser:    profilePtr(friendship.Friend),
	})

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetIncomingRequests handles GET /api/friends/requests
// @Summary List incoming friend requests
// @Tags friends
// @Produce json
// @Success 200 {array} models.FriendRequest
// @Security BearerAuth
// @Router /friends/requests [get]
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.friendService.ListIncomingRequests(c.UserContext(), userID))
}

// GetSentRequests handles GET /api/friends/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.friendService.SentRequests(c.UserContext(), userID))
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
// @Summary Accept friend request
// @Tags friends
// @Produce json
// @Param requestId path int true "Request id"
// @Success 200 {object} models.Friendship
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{requestId}/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	return s.respondToRequest(c, true)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject
// @Summary Reject friend request
// @Tags friends
// @Produce json
// @Param requestId path int true "Request id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{requestId}/reject [post]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	return s.respondToRequest(c, false)
}

func (s *Server) respondToRequest(c *fiber.Ctx, accept bool) error {
	ctx := c.UserContext()
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	requestID, err := parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.RespondAsRecipient(ctx, userID, requestID, accept)
	if err != nil {
		return respondError(c, err)
	}

	if !accept {
		s.publishUserEvent(ctx, friendship.UserID, notifications.EventFriendRequestRejected, friendRequestEvent{
			RequestID: friendship.ID,
			ToUser:    profilePtr(friendship.Friend),
		})
		return c.JSON(fiber.Map{"message": "Friend request rejected"})
	}

	s.publishUserEvent(ctx, friendship.UserID, notifications.EventFriendRequestAccepted, friendEvent{
		UserID: friendship.FriendID,
		User:   profilePtr(friendship.Friend),
	})
	return c.JSON(friendship)
}

// GetFriends handles GET /api/friends
// @Summary List friends
// @Tags friends
// @Produce json
// @Success 200 {array} models.Profile
// @Security BearerAuth
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.friendService.ListFriends(c.UserContext(), userID))
}

// RemoveFriend handles DELETE /api/friends/:userId. The pair's row is deleted
// whatever its status, so this also cancels a pending request.
// @Summary Remove friend
// @Tags friends
// @Produce json
// @Param userId path string true "Friend user id"
// @Success 200 {object} object{removed=bool}
// @Security BearerAuth
// @Router /friends/{userId} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	friendID, err := parseUserParam(c, "userId")
	if err != nil {
		return nil
	}

	removed, err := s.friendService.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		return respondError(c, err)
	}
	if removed {
		s.publishUserEvent(ctx, friendID, notifications.EventFriendRemoved, friendEvent{UserID: userID})
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// GetRelationStatus handles GET /api/friends/status/:userId
// @Summary Relation with another user
// @Tags friends
// @Produce json
// @Param userId path string true "Other user id"
// @Success 200 {object} models.RelationStatus
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/status/{userId} [get]
func (s *Server) GetRelationStatus(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	otherID, err := parseUserParam(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.friendService.RelationStatus(c.UserContext(), userID, otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// GetFriendsActivity handles GET /api/friends/activity
// @Summary Friends activity feed
// @Description The ten most recent watches of the caller's friends, newest first.
// @Tags friends
// @Produce json
// @Success 200 {array} models.ActivityItem
// @Security BearerAuth
// @Router /friends/activity [get]
func (s *Server) GetFriendsActivity(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.friendService.FriendsActivity(c.UserContext(), userID))
}

// GetSocialOverview handles GET /api/social/overview
func (s *Server) GetSocialOverview(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.friendService.Overview(c.UserContext(), userID))
}
