package main

import (
	"fmt"
	"os"

	"github.com/joanri79/cine-log/internal/cache"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/repository"
	"github.com/joanri79/cine-log/internal/seed"

	"github.com/spf13/cobra"
)

var platformsFile string

var (
	platformsCmd = &cobra.Command{
		Use:   "platforms",
		Short: "Manage the platform catalog",
	}

	platformsLoadCmd = &cobra.Command{
		Use:   "load",
		Short: "Upsert the platform catalog from the built-in list or a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			platforms, err := readPlatforms(platformsFile)
			if err != nil {
				return err
			}
			cfg, db, err := connect()
			if err != nil {
				return err
			}
			// Redis is optional; without it there is no cached list to drop.
			cache.InitRedis(cfg.RedisURL)

			if err := seed.Platforms(cmd.Context(), repository.NewPlatformRepository(db), platforms); err != nil {
				return fmt.Errorf("load platforms: %w", err)
			}
			cmd.Printf("loaded %d platforms\n", len(platforms))
			return nil
		},
	}

	platformsListCmd = &cobra.Command{
		Use:   "list",
		Short: "Print the stored platform catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := connect()
			if err != nil {
				return err
			}
			platforms, err := repository.NewPlatformRepository(db).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range platforms {
				cmd.Printf("%-16s %s\n", p.ID, p.Description)
			}
			return nil
		},
	}
)

func readPlatforms(path string) ([]models.Platform, error) {
	if path == "" {
		return seed.BuiltInPlatforms()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return seed.ParsePlatforms(raw)
}

func init() {
	platformsLoadCmd.Flags().StringVarP(&platformsFile, "file", "f", "", "YAML catalog to load instead of the built-in one")
	platformsCmd.AddCommand(platformsLoadCmd, platformsListCmd)
}
