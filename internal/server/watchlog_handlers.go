package server

import (
	"time"

	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/service"

	"github.com/gofiber/fiber/v2"
)

type logWatchRequest struct {
	TMDBID     int64      `json:"tmdb_id" validate:"required,gt=0"`
	Type       string     `json:"type" validate:"required,contenttype"`
	WatchedAt  *time.Time `json:"timestamp"`
	Rating     *int       `json:"rating" validate:"required,min=0,max=10"`
	PlatformID string     `json:"platform" validate:"max=64"`
	Comment    string     `json:"comment" validate:"max=2000"`
}

type updateEntryRequest struct {
	WatchedAt  *time.Time `json:"timestamp"`
	Rating     *int       `json:"rating" validate:"omitempty,min=0,max=10"`
	PlatformID *string    `json:"platform" validate:"omitempty,max=64"`
	Comment    *string    `json:"comment" validate:"omitempty,max=2000"`
}

// LogWatch handles POST /api/logs
// @Summary Log a watch
// @Description Records that the caller watched a movie or show. The content is fetched from the metadata provider and stored first.
// @Tags logs
// @Accept json
// @Produce json
// @Param request body logWatchRequest true "Watch"
// @Success 201 {object} models.WatchLogEntry
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /logs [post]
func (s *Server) LogWatch(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	var req logWatchRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	in := service.LogWatchInput{
		TMDBID:     req.TMDBID,
		Type:       models.ContentType(req.Type),
		Rating:     *req.Rating,
		PlatformID: req.PlatformID,
		Comment:    req.Comment,
	}
	if req.WatchedAt != nil {
		in.WatchedAt = req.WatchedAt.UTC()
	}

	entry, err := s.watchService.LogWatch(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetHistory handles GET /api/logs?q=
// @Summary Watch history
// @Description The caller's entries newest first, optionally filtered by title or platform.
// @Tags logs
// @Produce json
// @Param q query string false "Title or platform filter"
// @Success 200 {array} models.WatchLogEntry
// @Security BearerAuth
// @Router /logs [get]
func (s *Server) GetHistory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	entries, err := s.watchService.History(c.UserContext(), userID, c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// UpdateLogEntry handles PUT /api/logs/:id
func (s *Server) UpdateLogEntry(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateEntryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	entry, err := s.watchService.UpdateEntry(c.UserContext(), userID, id, service.UpdateEntryInput{
		WatchedAt:  req.WatchedAt,
		Rating:     req.Rating,
		PlatformID: req.PlatformID,
		Comment:    req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// DeleteLogEntry handles DELETE /api/logs/:id
func (s *Server) DeleteLogEntry(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.watchService.DeleteEntry(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStats handles GET /api/stats
// @Summary Watch statistics
// @Tags logs
// @Produce json
// @Success 200 {object} models.WatchStats
// @Security BearerAuth
// @Router /stats [get]
func (s *Server) GetStats(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	stats, err := s.watchService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetPlatforms handles GET /api/platforms
func (s *Server) GetPlatforms(c *fiber.Ctx) error {
	platforms, err := s.watchService.Platforms(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(platforms)
}
