package main

import (
	"fmt"

	"github.com/joanri79/cine-log/internal/seed"

	"github.com/spf13/cobra"
)

var seedOpts = seed.DefaultOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with generated users, content, friendships and watch logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, err := connect()
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to seed a %s database", cfg.Env)
		}

		res, err := seed.NewSeeder(db, seedOpts).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		cmd.Printf("platforms=%d users=%d content=%d friendships=%d pending=%d watch_logs=%d\n",
			res.Platforms, res.Users, res.Content, res.Friendships, res.Pending, res.WatchLogs)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedOpts.Users, "users", seedOpts.Users, "number of users to create")
	f.IntVar(&seedOpts.ContentItems, "content", seedOpts.ContentItems, "number of catalog items to create")
	f.IntVar(&seedOpts.LogsPerUser, "logs-per-user", seedOpts.LogsPerUser, "watch log entries per user")
	f.IntVar(&seedOpts.FriendsPerUser, "friends-per-user", seedOpts.FriendsPerUser, "friend links per user; the last one stays pending")
	f.IntVar(&seedOpts.MaxDays, "max-days", seedOpts.MaxDays, "spread watch times over this many past days")
	f.BoolVar(&seedOpts.Clean, "clean", false, "delete generated rows before seeding")
	f.Int64Var(&seedOpts.Seed, "seed", 0, "faker seed; 0 picks one from the clock")
}
