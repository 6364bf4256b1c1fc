package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/joanri79/cine-log/internal/database"
	"github.com/joanri79/cine-log/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createUsers(t *testing.T, db *gorm.DB, users ...models.User) {
	t.Helper()
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
}

func createContent(t *testing.T, db *gorm.DB, tmdbID int64, title string) models.Content {
	t.Helper()
	c := models.Content{TMDBID: tmdbID, Title: title, Type: models.ContentTypeMovie, Genre: "Drama", Runtime: 100}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func createEntry(t *testing.T, db *gorm.DB, userID string, contentID uint, at time.Time) models.WatchLogEntry {
	t.Helper()
	e := models.WatchLogEntry{UserID: userID, ContentID: contentID, WatchedAt: at, Rating: 7, PlatformID: "netflix"}
	require.NoError(t, db.Omit("User", "Content").Create(&e).Error)
	return e
}
