package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/smallbiznis/clubhouse/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestBookingsMigrationHasUniqueIndex(t *testing.T) {
	raw, err := fs.ReadFile(embeddedMigrations, "sql/000002_bookings.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_event_email ON bookings (event_id, email_normalized)")
}

func TestAutoMigrate(t *testing.T) {
	conn := db.NewTest(t)
	require.NoError(t, AutoMigrate(conn))

	for _, table := range []string{"events", "bookings", "notifications"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	assert.True(t, conn.Migrator().HasIndex("bookings", "ux_bookings_event_email"))
}
