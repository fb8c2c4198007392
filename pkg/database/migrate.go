package database

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseDialects maps gorm dialector names to goose dialects
var gooseDialects = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite3",
}

// Migrate applies the embedded goose migrations on top of db's pool
func Migrate(db *gorm.DB) error {
	dialect, ok := gooseDialects[db.Dialector.Name()]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", db.Dialector.Name())
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
