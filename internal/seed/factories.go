// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/joanri79/cine-log/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds domain entities from a seeded faker. It never touches the database.
type Factory struct {
	faker    *gofakeit.Faker
	maxDays  int
	now      time.Time
	nextTMDB int64
}

// NewFactory returns a Factory. The same seed yields the same entities.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 180
	}
	return &Factory{
		faker:    gofakeit.New(seed),
		maxDays:  maxDays,
		now:      time.Now().UTC(),
		nextTMDB: 900000,
	}
}

// User builds a profile row with a fresh opaque id.
func (f *Factory) User(overrides ...func(*models.User)) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	user := &models.User{
		ID:       f.faker.UUID(),
		Nickname: strings.ToLower(f.faker.Username()) + fmt.Sprintf("%d", f.faker.Number(10, 99)),
		Name:     first,
		Surname:  last,
		Contact:  strings.ToLower(first+"."+last) + "@" + f.faker.DomainName(),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// Content builds a catalog item. TMDB ids are allocated from a private range so
// seeded rows never collide with real lookups.
func (f *Factory) Content(overrides ...func(*models.Content)) *models.Content {
	f.nextTMDB++
	kind := models.ContentTypeMovie
	runtime := f.faker.Number(80, 180)
	if f.faker.Number(0, 3) == 0 {
		kind = models.ContentTypeTV
		runtime = f.faker.Number(20, 60)
	}
	content := &models.Content{
		TMDBID:     f.nextTMDB,
		Title:      f.faker.MovieName(),
		Type:       kind,
		Genre:      f.genres(),
		PosterPath: fmt.Sprintf("/seed/%d.jpg", f.nextTMDB),
		Runtime:    runtime,
	}
	for _, override := range overrides {
		override(content)
	}
	return content
}

func (f *Factory) genres() string {
	first := f.faker.MovieGenre()
	second := f.faker.MovieGenre()
	if second == first {
		return first
	}
	return first + ", " + second
}

// WatchLog builds an entry for user watching content on one of platforms.
// The watch time falls within the factory's day window.
func (f *Factory) WatchLog(user *models.User, content *models.Content, platforms []models.Platform) *models.WatchLogEntry {
	entry := &models.WatchLogEntry{
		UserID:    user.ID,
		ContentID: content.ID,
		WatchedAt: f.faker.DateRange(f.now.AddDate(0, 0, -f.maxDays), f.now).UTC(),
		Rating:    f.faker.Number(models.MinRating, models.MaxRating),
	}
	if len(platforms) > 0 {
		entry.PlatformID = platforms[f.faker.Number(0, len(platforms)-1)].ID
	}
	if f.faker.Number(0, 2) > 0 {
		entry.Comment = f.faker.Sentence(f.faker.Number(4, 12))
	}
	return entry
}

// Pick returns an index in [0, n).
func (f *Factory) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}
