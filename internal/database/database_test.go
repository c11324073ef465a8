package database

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := NewDatabaseWithOptions(config.Database{Driver: DriverSQLite, Path: dbPath}, Options{LogLevel: logger.Silent})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_MigratesTables(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Equal(t, DriverSQLite, db.Driver)
	assert.True(t, db.DB.Migrator().HasTable("book"))
	assert.True(t, db.DB.Migrator().HasTable("auther"))
	assert.True(t, db.DB.Migrator().HasTable("notes"))
	assert.True(t, db.DB.Migrator().HasColumn(&entities.Author{}, "o_l_id"))
	assert.True(t, db.DB.Migrator().HasColumn(&entities.Book{}, "reading_date"))
}

func TestNewDatabase_EnforcesForeignKeys(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.DB.Create(&entities.Book{Name: "Orphan", ISBN: "123", AuthorID: 999}).Error
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestDialector(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Database
		wantName string
		wantErr  bool
	}{
		{"default is sqlite", config.Database{Path: "x.db"}, "sqlite", false},
		{"sqlite", config.Database{Driver: "sqlite", Path: "x.db"}, "sqlite", false},
		{"sqlite without path", config.Database{Driver: "sqlite"}, "", true},
		{"postgres", config.Database{Driver: "postgres", DSN: "host=localhost dbname=book"}, "postgres", false},
		{"postgres without dsn", config.Database{Driver: "postgres"}, "", true},
		{"mysql", config.Database{Driver: "mysql", DSN: "user:pass@tcp(localhost:3306)/book"}, "mysql", false},
		{"unknown driver", config.Database{Driver: "oracle", DSN: "x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteDSN("app.db"))
	assert.Equal(t, "app.db?cache=shared&_foreign_keys=on", sqliteDSN("app.db?cache=shared"))
	assert.Equal(t, "app.db?_foreign_keys=off", sqliteDSN("app.db?_foreign_keys=off"))
}
