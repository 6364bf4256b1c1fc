package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joanri79/cine-log/internal/config"
	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"

	"gorm.io/gorm"
)

// Schema modes accepted in DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do for a given config.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

// schemaPlan is what ApplySchema will do for one configuration.
type schemaPlan struct {
	mode    string
	runSQL  bool
	runAuto bool
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// planSchema resolves DB_SCHEMA_MODE. hybrid runs the SQL migrations everywhere
// and AutoMigrate only outside prod-like environments.
func planSchema(cfg *config.Config) (schemaPlan, error) {
	plan := schemaPlan{mode: strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))}
	if plan.mode == "" {
		plan.mode = SchemaModeHybrid
	}
	prodLike := isProdLikeEnv(cfg.Env)

	switch plan.mode {
	case SchemaModeSQL:
		plan.runSQL = true
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.runAuto = true
	case SchemaModeHybrid:
		plan.runSQL = true
		plan.runAuto = !prodLike
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.mode)
	}
	return plan, nil
}

// AutoMigrate creates or updates every persistent model's table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// requiredIndexes back invariants the repositories rely on instead of checking
// in application code.
var requiredIndexes = []struct {
	model interface{}
	name  string
}{
	{&models.Friendship{}, "idx_friendships_pair"},
	{&models.Content{}, "idx_contenidos_tmdb_id"},
}

// VerifySchema fails when a table or an invariant-bearing index is missing.
func VerifySchema(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range PersistentModels() {
		if !m.HasTable(model) {
			return fmt.Errorf("schema: missing table for %T", model)
		}
	}
	for _, idx := range requiredIndexes {
		if !m.HasIndex(idx.model, idx.name) {
			return fmt.Errorf("schema: missing index %s", idx.name)
		}
	}
	return nil
}

// ApplySchema brings the schema up to date according to DB_SCHEMA_MODE and
// then verifies it.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.runAuto {
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", plan.mode), slog.String("env", cfg.Env))
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return VerifySchema(db.WithContext(ctx))
}

// GetSchemaStatus reports applied and pending migrations without changing anything.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.mode,
		Environment:        cfg.Env,
		WillRunSQL:         plan.runSQL,
		WillRunAutoMigrate: plan.runAuto,
	}

	if !plan.runSQL {
		return status, nil
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	status.PendingMigrations = pendingMigrations(applied, GetMigrations())
	return status, nil
}
