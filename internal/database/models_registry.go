package database

import "github.com/joanri79/cine-log/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Platform{},
		&models.Content{},
		&models.WatchLogEntry{},
		&models.Friendship{},
	}
}
