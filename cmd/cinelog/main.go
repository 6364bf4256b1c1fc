// Command cinelog is the admin CLI: schema migrations, demo data and the
// platform catalog.
package main

import (
	"fmt"
	"os"

	"github.com/joanri79/cine-log/internal/config"
	"github.com/joanri79/cine-log/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "cinelog",
	Short:         "Administer the cine-log database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, platformsCmd)
}

// connect loads configuration and opens the database without applying the schema.
func connect() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func main() {
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cinelog: %v\n", err)
		os.Exit(1)
	}
}
