package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.json")

	records := []map[string]any{
		{"id": "1", "type": "image"},
		{"id": "2", "type": "video"},
	}

	require.NoError(t, JSON(filename, records))

	b, err := os.ReadFile(filename)
	require.NoError(t, err)

	// Pretty-printed: multi-line with indentation.
	assert.True(t, strings.Contains(string(b), "\n    "))
	assert.Contains(t, string(b), `"id": "1"`)
	assert.Contains(t, string(b), `"type": "video"`)
}

func TestCSV(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.csv")

	records := []map[string]any{
		{"id": "1", "type": "image", "url": "https://i.redd.it/a.jpg"},
		{"id": "2", "type": "video", "url": nil},
	}

	require.NoError(t, CSV(filename, records))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "type", "url"}, rows[0])
	assert.Equal(t, []string{"1", "image", "https://i.redd.it/a.jpg"}, rows[1])
	assert.Equal(t, []string{"2", "video", ""}, rows[2])
}

func TestCSVEmptyFails(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.csv")
	assert.Error(t, CSV(filename, nil))
	assert.NoFileExists(t, filename)
}
