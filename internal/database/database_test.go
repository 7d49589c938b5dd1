package database

import (
	"context"
	"testing"
	"testing/fstest"

	"scholarsync/internal/config"
	"scholarsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestEmbeddedMigrationsAreRegistered(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "000001_init", all[0].String())
	assert.Contains(t, all[0].UpScript, "CREATE TABLE IF NOT EXISTS activities")
	assert.Contains(t, all[0].DownScript, "DROP TABLE IF EXISTS activities")

	_, ok := GetMigrationByVersion(1)
	assert.True(t, ok)
	_, ok = GetMigrationByVersion(999)
	assert.False(t, ok)
}

func TestLoadMigrations(t *testing.T) {
	t.Run("sorts by version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"migrations/000002_second.up.sql":   {Data: []byte("B")},
			"migrations/000002_second.down.sql": {Data: []byte("b")},
			"migrations/000001_first.up.sql":    {Data: []byte("A")},
			"migrations/000001_first.down.sql":  {Data: []byte("a")},
			"migrations/README.md":              {Data: []byte("ignored")},
		}
		got, err := LoadMigrations(fsys)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Name)
		assert.Equal(t, "B", got[1].UpScript)
	})

	t.Run("missing down script", func(t *testing.T) {
		fsys := fstest.MapFS{"migrations/000001_first.up.sql": {Data: []byte("A")}}
		_, err := LoadMigrations(fsys)
		assert.Error(t, err)
	})

	t.Run("duplicate version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"migrations/000001_a.up.sql":   {Data: []byte("A")},
			"migrations/000001_a.down.sql": {Data: []byte("a")},
			"migrations/000001_b.up.sql":   {Data: []byte("B")},
			"migrations/000001_b.down.sql": {Data: []byte("b")},
		}
		_, err := LoadMigrations(fsys)
		assert.ErrorContains(t, err, "used by")
	})

	t.Run("bad name", func(t *testing.T) {
		fsys := fstest.MapFS{"migrations/init.up.sql": {Data: []byte("A")}}
		_, err := LoadMigrations(fsys)
		assert.Error(t, err)
	})
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))
	assert.ErrorContains(t, validateAppliedVersions([]int{1, 7}, registered), "000007")
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mode    string
		wantSQL bool
		wantAut bool
		wantErr bool
	}{
		{"hybrid dev", "development", "", true, true, false},
		{"hybrid prod", "production", "hybrid", true, false, false},
		{"sql", "development", "sql", true, false, false},
		{"auto dev", "development", "auto", false, true, false},
		{"auto prod refused", "production", "auto", false, false, true},
		{"unknown", "development", "magic", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&config.Config{Env: tt.env, DBSchemaMode: tt.mode})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAut, runAuto)
		})
	}
}

func TestApplySchema_AutoModeCreatesTables(t *testing.T) {
	db := openSQLite(t)
	cfg := &config.Config{Env: "development", DBSchemaMode: SchemaModeAuto}

	require.NoError(t, ApplySchema(context.Background(), db, cfg))
	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Interaction{}, "idx_interactions_user_target"))
	assert.True(t, db.Migrator().HasIndex(&models.Vote{}, "idx_votes_user_poll"))
}

func TestAppliedVersions_MissingTable(t *testing.T) {
	db := openSQLite(t)
	versions, err := AppliedVersions(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestGetSchemaStatus_ListsPending(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&MigrationLog{}))

	status, err := GetSchemaStatus(context.Background(), db, &config.Config{Env: "production", DBSchemaMode: SchemaModeSQL})
	require.NoError(t, err)
	assert.True(t, status.WillRunSQL)
	assert.False(t, status.WillRunAutoMigrate)
	assert.Len(t, status.PendingMigrations, len(GetMigrations()))
}

func TestRollbackMigration_NotApplied(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&MigrationLog{}))

	err := RollbackMigration(context.Background(), db, 1)
	assert.ErrorContains(t, err, "has not been applied")

	err = RollbackMigration(context.Background(), db, 42)
	assert.ErrorContains(t, err, "not found")
}

func TestForUpdate_NoopOnSQLite(t *testing.T) {
	db := openSQLite(t)
	assert.False(t, IsPostgres(db))
	assert.Same(t, db, ForUpdate(db))
}
