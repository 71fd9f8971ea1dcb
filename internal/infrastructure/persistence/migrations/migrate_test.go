package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailable(t *testing.T) {
	names, err := Available()

	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_users", "000002_create_kv_entries"}, names)
}

func TestEveryMigrationHasADown(t *testing.T) {
	names, err := Available()
	require.NoError(t, err)

	for _, name := range names {
		down, err := fs.ReadFile(sqlFiles, "sql/"+name+".down.sql")
		require.NoError(t, err, name)
		assert.True(t, strings.Contains(string(down), "DROP"), name)
	}
}
