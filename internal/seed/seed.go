package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/repository"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users          int
	ContentItems   int
	LogsPerUser    int
	FriendsPerUser int
	MaxDays        int
	Clean          bool
	// Seed fixes the faker seed; zero picks one from the clock.
	Seed int64
}

// DefaultOptions is a small but connected dataset.
var DefaultOptions = Options{
	Users:          20,
	ContentItems:   40,
	LogsPerUser:    12,
	FriendsPerUser: 3,
	MaxDays:        180,
}

// Result counts the rows written by a run.
type Result struct {
	Platforms   int
	Users       int
	Content     int
	Friendships int
	Pending     int
	WatchLogs   int
}

// Seeder writes demo users, content, friendships and watch logs.
type Seeder struct {
	db   *gorm.DB
	opts Options
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Seeder{db: db, opts: opts}
}

// Run seeds the platform catalog and then the generated dataset.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	middleware.Logger.Info("Seeding database",
		slog.Int("users", s.opts.Users),
		slog.Int("content", s.opts.ContentItems),
		slog.Int64("seed", s.opts.Seed))

	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	platforms, err := BuiltInPlatforms()
	if err != nil {
		return nil, err
	}
	if err := Platforms(ctx, repository.NewPlatformRepository(s.db), platforms); err != nil {
		return nil, fmt.Errorf("seed platforms: %w", err)
	}

	res := &Result{Platforms: len(platforms)}
	f := NewFactory(s.opts.Seed, s.opts.MaxDays)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.seedUsers(tx, f)
		if err != nil {
			return err
		}
		res.Users = len(users)

		contents, err := s.seedContent(tx, f)
		if err != nil {
			return err
		}
		res.Content = len(contents)

		res.Friendships, res.Pending, err = s.seedFriendships(tx, users)
		if err != nil {
			return err
		}

		res.WatchLogs, err = s.seedWatchLogs(tx, f, users, contents, platforms)
		return err
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("Seeding complete",
		slog.Int("users", res.Users),
		slog.Int("content", res.Content),
		slog.Int("friendships", res.Friendships),
		slog.Int("pending", res.Pending),
		slog.Int("watch_logs", res.WatchLogs))
	return res, nil
}

// ClearAll deletes generated rows, children first. The platform catalog is kept.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&models.WatchLogEntry{},
		&models.Friendship{},
		&models.Content{},
		&models.User{},
	} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(tx *gorm.DB, f *Factory) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		users = append(users, f.User())
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := tx.CreateInBatches(users, 100).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

func (s *Seeder) seedContent(tx *gorm.DB, f *Factory) ([]*models.Content, error) {
	contents := make([]*models.Content, 0, s.opts.ContentItems)
	for i := 0; i < s.opts.ContentItems; i++ {
		contents = append(contents, f.Content())
	}
	if len(contents) == 0 {
		return contents, nil
	}
	if err := tx.CreateInBatches(contents, 100).Error; err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return contents, nil
}

// seedFriendships links each user to the next FriendsPerUser users on a ring.
// The last link of every user stays pending; the others are accepted.
func (s *Seeder) seedFriendships(tx *gorm.DB, users []*models.User) (accepted, pending int, err error) {
	n := len(users)
	seen := make(map[string]struct{})
	for i, u := range users {
		for k := 1; k <= s.opts.FriendsPerUser && k < n; k++ {
			other := users[(i+k)%n]
			key := models.PairKey(u.ID, other.ID)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			status := models.FriendshipStatusAccepted
			if k == s.opts.FriendsPerUser {
				status = models.FriendshipStatusPending
			}
			row := models.Friendship{UserID: u.ID, FriendID: other.ID, Status: status}
			if err := tx.Omit("User", "Friend").Create(&row).Error; err != nil {
				return accepted, pending, fmt.Errorf("create friendship: %w", err)
			}
			if status == models.FriendshipStatusPending {
				pending++
			} else {
				accepted++
			}
		}
	}
	return accepted, pending, nil
}

func (s *Seeder) seedWatchLogs(tx *gorm.DB, f *Factory, users []*models.User, contents []*models.Content, platforms []models.Platform) (int, error) {
	if len(contents) == 0 {
		return 0, nil
	}
	entries := make([]*models.WatchLogEntry, 0, len(users)*s.opts.LogsPerUser)
	for _, u := range users {
		for i := 0; i < s.opts.LogsPerUser; i++ {
			entries = append(entries, f.WatchLog(u, contents[f.Pick(len(contents))], platforms))
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := tx.Omit("User", "Content").CreateInBatches(entries, 200).Error; err != nil {
		return 0, fmt.Errorf("create watch logs: %w", err)
	}
	return len(entries), nil
}
