package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	migrations, err := Load()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].ID)
	assert.Equal(t, "001_create_coin_tables.sql", migrations[0].Filename)
	assert.Contains(t, migrations[0].Content, "uq_snapshots_coin_timestamp")
	assert.Equal(t, 2, migrations[1].ID)
	assert.Equal(t, 3, migrations[2].ID)
	assert.Contains(t, migrations[2].Content, "ON DELETE CASCADE")
}

func TestLoadFromSkipsForeignFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/010_later.sql":  {Data: []byte("SELECT 10;")},
		"m/002_second.sql": {Data: []byte("SELECT 2;")},
		"m/README.md":      {Data: []byte("notes")},
		"m/draft.sql":      {Data: []byte("SELECT 0;")},
		"m/abc_bad.sql":    {Data: []byte("SELECT 0;")},
	}

	migrations, err := loadFrom(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].ID)
	assert.Equal(t, 10, migrations[1].ID)
	assert.Equal(t, "SELECT 10;", migrations[1].Content)
}
