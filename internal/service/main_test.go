package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/joanri79/cine-log/internal/database"
	"github.com/joanri79/cine-log/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type friendRepoStub struct {
	createFn       func(context.Context, *models.Friendship) error
	getByIDFn      func(context.Context, uint) (*models.Friendship, error)
	getBetweenFn   func(context.Context, string, string) (*models.Friendship, error)
	listAcceptedFn func(context.Context, string) ([]models.Friendship, error)
	friendIDsFn    func(context.Context, string) ([]string, error)
	connectedIDsFn func(context.Context, string) ([]string, error)
	listIncomingFn func(context.Context, string) ([]models.Friendship, error)
	listOutgoingFn func(context.Context, string) ([]models.Friendship, error)
	updateStatusFn func(context.Context, uint, models.FriendshipStatus) error
	deleteFn       func(context.Context, uint) error
	deletePairFn   func(context.Context, string, string) (int64, error)
}

func (s *friendRepoStub) Create(ctx context.Context, f *models.Friendship) error {
	return s.createFn(ctx, f)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetBetween(ctx context.Context, a, b string) (*models.Friendship, error) {
	return s.getBetweenFn(ctx, a, b)
}
func (s *friendRepoStub) ListAccepted(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.listAcceptedFn(ctx, userID)
}
func (s *friendRepoStub) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	return s.friendIDsFn(ctx, userID)
}
func (s *friendRepoStub) ConnectedIDs(ctx context.Context, userID string) ([]string, error) {
	return s.connectedIDsFn(ctx, userID)
}
func (s *friendRepoStub) ListIncoming(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.listIncomingFn(ctx, userID)
}
func (s *friendRepoStub) ListOutgoing(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.listOutgoingFn(ctx, userID)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *friendRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *friendRepoStub) DeletePair(ctx context.Context, a, b string) (int64, error) {
	return s.deletePairFn(ctx, a, b)
}

type userRepoStub struct {
	getByIDFn func(context.Context, string) (*models.User, error)
	searchFn  func(context.Context, string, []string, int) ([]models.User, error)
	createFn  func(context.Context, *models.User) error
	updateFn  func(context.Context, *models.User) error
	countFn   func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, q string, exclude []string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, q, exclude, limit)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

type watchRepoStub struct {
	createFn         func(context.Context, *models.WatchLogEntry) error
	getByIDFn        func(context.Context, uint) (*models.WatchLogEntry, error)
	updateFn         func(context.Context, *models.WatchLogEntry) error
	deleteFn         func(context.Context, uint) error
	listByUserFn     func(context.Context, string, string) ([]models.WatchLogEntry, error)
	latestForUsersFn func(context.Context, []string, int) ([]models.WatchLogEntry, error)
}

func (s *watchRepoStub) Create(ctx context.Context, e *models.WatchLogEntry) error {
	return s.createFn(ctx, e)
}
func (s *watchRepoStub) GetByID(ctx context.Context, id uint) (*models.WatchLogEntry, error) {
	return s.getByIDFn(ctx, id)
}
func (s *watchRepoStub) Update(ctx context.Context, e *models.WatchLogEntry) error {
	return s.updateFn(ctx, e)
}
func (s *watchRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *watchRepoStub) ListByUser(ctx context.Context, userID, filter string) ([]models.WatchLogEntry, error) {
	return s.listByUserFn(ctx, userID, filter)
}
func (s *watchRepoStub) LatestForUsers(ctx context.Context, ids []string, limit int) ([]models.WatchLogEntry, error) {
	return s.latestForUsersFn(ctx, ids, limit)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn:       func(context.Context, *models.Friendship) error { return nil },
		getByIDFn:      func(context.Context, uint) (*models.Friendship, error) { return &models.Friendship{}, nil },
		getBetweenFn:   func(context.Context, string, string) (*models.Friendship, error) { return nil, nil },
		listAcceptedFn: func(context.Context, string) ([]models.Friendship, error) { return nil, nil },
		friendIDsFn:    func(context.Context, string) ([]string, error) { return nil, nil },
		connectedIDsFn: func(context.Context, string) ([]string, error) { return nil, nil },
		listIncomingFn: func(context.Context, string) ([]models.Friendship, error) { return nil, nil },
		listOutgoingFn: func(context.Context, string) ([]models.Friendship, error) { return nil, nil },
		updateStatusFn: func(context.Context, uint, models.FriendshipStatus) error { return nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		deletePairFn:   func(context.Context, string, string) (int64, error) { return 0, nil },
	}
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		searchFn:  func(context.Context, string, []string, int) ([]models.User, error) { return nil, nil },
		createFn:  func(context.Context, *models.User) error { return nil },
		updateFn:  func(context.Context, *models.User) error { return nil },
		countFn:   func(context.Context) (int64, error) { return 0, nil },
	}
}

func noopWatchRepo() *watchRepoStub {
	return &watchRepoStub{
		createFn:         func(context.Context, *models.WatchLogEntry) error { return nil },
		getByIDFn:        func(context.Context, uint) (*models.WatchLogEntry, error) { return &models.WatchLogEntry{}, nil },
		updateFn:         func(context.Context, *models.WatchLogEntry) error { return nil },
		deleteFn:         func(context.Context, uint) error { return nil },
		listByUserFn:     func(context.Context, string, string) ([]models.WatchLogEntry, error) { return nil, nil },
		latestForUsersFn: func(context.Context, []string, int) ([]models.WatchLogEntry, error) { return nil, nil },
	}
}

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), database.GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		u := models.User{ID: id, Nickname: id, Name: strings.ToUpper(id[:1]) + id[1:], Contact: id + "@example.test"}
		require.NoError(t, db.Create(&u).Error)
	}
}

func seedWatch(t *testing.T, db *gorm.DB, userID string, tmdbID int64, at time.Time) {
	t.Helper()
	c := models.Content{TMDBID: tmdbID, Title: "Title " + userID, Type: models.ContentTypeMovie, PosterPath: "/p.jpg"}
	require.NoError(t, db.Create(&c).Error)
	e := models.WatchLogEntry{UserID: userID, ContentID: c.ID, WatchedAt: at, Rating: 8, Comment: "ok"}
	require.NoError(t, db.Omit("User", "Content").Create(&e).Error)
}
