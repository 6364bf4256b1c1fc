package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/notifications"
	"github.com/joanri79/cine-log/internal/observability"
)

// publishUserEvent delivers an event to every connection of userID. With Redis the
// event goes through pub/sub so all instances see it; without Redis only local
// connections are reached. Failures are logged and never reach the caller.
func (s *Server) publishUserEvent(ctx context.Context, userID, eventType string, payload interface{}) {
	ev := notifications.NewEvent(eventType, payload)
	ctx = context.WithoutCancel(ctx)

	if s.notifier.Enabled() {
		if err := s.notifier.PublishEvent(ctx, userID, ev); err != nil {
			observability.WebSocketEventsTotal.WithLabelValues("publish_failed").Inc()
			middleware.Logger.WarnContext(ctx, "failed to publish user event",
				slog.String("event", eventType),
				slog.String("target_user_id", userID),
				slog.String("error", err.Error()))
		}
		return
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal user event",
			slog.String("event", eventType), slog.String("error", err.Error()))
		return
	}
	s.hub.Broadcast(userID, raw)
}

type friendRequestEvent struct {
	RequestID uint            `json:"request_id"`
	FromUser  *models.Profile `json:"from_user,omitempty"`
	ToUser    *models.Profile `json:"to_user,omitempty"`
}

type friendEvent struct {
	UserID string          `json:"user_id"`
	User   *models.Profile `json:"user,omitempty"`
}

func profilePtr(u *models.User) *models.Profile {
	if u == nil {
		return nil
	}
	p := u.Profile()
	return &p
}
