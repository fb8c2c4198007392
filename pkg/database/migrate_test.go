package database_test

import (
	"path/filepath"
	"testing"

	"go-slab-ws/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func migrated(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "slabs.db") + "?_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(zap.NewNop(), logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedBatch(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`INSERT INTO users (id, username, password_hash, role) VALUES ('u1', 'anwar', 'x', 'marker')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO batches (batch_number, supplier_name, color, user_id, date) VALUES ('B1', 'Acme', 'Black', 'u1', '2026-01-02')`).Error)
}

func TestMigrateCreatesTablesAndIsRepeatable(t *testing.T) {
	db := migrated(t)

	for _, table := range []string{"users", "batches", "slabs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("slabs", "idx_slabs_batch_number"))

	var version int64
	require.NoError(t, db.Raw(`SELECT MAX(version_id) FROM goose_db_version`).Scan(&version).Error)
	assert.Equal(t, int64(1), version)

	require.NoError(t, database.Migrate(db))
}

func TestMigratedSchemaEnforcesConstraints(t *testing.T) {
	db := migrated(t)
	seedBatch(t, db)

	var role string
	require.NoError(t, db.Raw(`SELECT role FROM users WHERE id = 'u1'`).Scan(&role).Error)
	assert.Equal(t, "marker", role)

	err := db.Exec(`INSERT INTO users (id, username, password_hash, role) VALUES ('u2', 'eve', 'x', 'owner')`).Error
	assert.Error(t, err, "role outside admin/marker")

	err = db.Exec(`INSERT INTO slabs (slab_number, length, width, sq_ft, grade, batch_number) VALUES (1, 2, 3, 6, 'Z', 'B1')`).Error
	assert.Error(t, err, "unknown grade")

	err = db.Exec(`INSERT INTO slabs (slab_number, length, width, sq_ft, grade, batch_number) VALUES (1, 2, 3, 6, 'A', 'B9')`).Error
	assert.Error(t, err, "slab for missing batch")

	require.NoError(t, db.Exec(`INSERT INTO slabs (slab_number, length, width, sq_ft, grade, batch_number) VALUES (1, 2, 3, 6, 'Other', 'B1')`).Error)
	err = db.Exec(`DELETE FROM batches WHERE batch_number = 'B1'`).Error
	assert.Error(t, err, "batch with slabs is restricted")

	require.NoError(t, db.Exec(`DELETE FROM slabs`).Error)
	assert.NoError(t, db.Exec(`DELETE FROM batches WHERE batch_number = 'B1'`).Error)
}

func TestMigrateRejectsUnknownDialect(t *testing.T) {
	db := migrated(t)
	db.Dialector = unnamed{db.Dialector}
	assert.ErrorContains(t, database.Migrate(db), "no migrations for dialect")
}

type unnamed struct{ gorm.Dialector }

func (unnamed) Name() string { return "mssql" }
