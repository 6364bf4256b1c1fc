package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/joanri79/cine-log/internal/cache"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed platforms.yml
var platformsYAML []byte

type platformCatalog struct {
	Platforms []models.Platform `yaml:"platforms"`
}

// ParsePlatforms decodes a platform catalog document. Ids must be unique and non-empty.
func ParsePlatforms(raw []byte) ([]models.Platform, error) {
	var catalog platformCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse platform catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(catalog.Platforms))
	for i := range catalog.Platforms {
		p := &catalog.Platforms[i]
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("platform catalog: entry %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("platform catalog: duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return catalog.Platforms, nil
}

// BuiltInPlatforms returns the embedded platform catalog.
func BuiltInPlatforms() ([]models.Platform, error) {
	return ParsePlatforms(platformsYAML)
}

// Platforms upserts the catalog and drops the cached platform list.
func Platforms(ctx context.Context, repo repository.PlatformRepository, platforms []models.Platform) error {
	if err := repo.UpsertAll(ctx, platforms); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PlatformsKey)
	return nil
}
