package server

import (
	"github.com/joanri79/cine-log/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchContent handles GET /api/content/search?q=
// @Summary Search movies and shows
// @Tags content
// @Produce json
// @Param q query string true "Title"
// @Success 200 {array} tmdb.SearchResult
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/search [get]
func (s *Server) SearchContent(c *fiber.Ctx) error {
	results, err := s.watchService.SearchContent(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}

// GetContentDetails handles GET /api/content/:type/:tmdbId
// @Summary Content details
// @Tags content
// @Produce json
// @Param type path string true "movie or tv"
// @Param tmdbId path int true "Metadata provider id"
// @Success 200 {object} models.Content
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{type}/{tmdbId} [get]
func (s *Server) GetContentDetails(c *fiber.Ctx) error {
	kind := models.ContentType(c.Params("type"))
	if !kind.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("type must be movie or tv"))
	}
	tmdbID, err := parseID(c, "tmdbId")
	if err != nil {
		return nil
	}

	content, err := s.watchService.ContentDetails(c.UserContext(), kind, int64(tmdbID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(content)
}
