package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCatalog(t *testing.T) {
	c, err := DemoCatalog()
	require.NoError(t, err)
	assert.Equal(t, 10, c.Len())

	j, err := c.Get("42")
	require.NoError(t, err)
	assert.Equal(t, "Site Reliability Engineer", j.Title)
	assert.Equal(t, "Helios Cloud", j.Company)
	require.NotNil(t, j.Deadline)
	assert.Equal(t, 2026, j.PostedDate.Year())

	_, err = c.Get("404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c, err := DemoCatalog()
	require.NoError(t, err)

	j, err := c.Get("42")
	require.NoError(t, err)
	j.Skills[0] = "mutated"

	again, err := c.Get("42")
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Skills[0])
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate id", "jobs:\n  - {id: \"1\", title: A}\n  - {id: \"1\", title: B}\n"},
		{"missing id", "jobs:\n  - {title: A}\n"},
		{"missing title", "jobs:\n  - {id: \"1\"}\n"},
		{"bad yaml", "jobs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	body := "jobs:\n  - id: a1\n    title: Go Developer\n    company: Acme\n    skills: [Go]\n    postedDate: 2026-02-01\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "a1", all[0].ID)
	assert.Equal(t, []string{"Go"}, all[0].Skills)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	demo, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 10, demo.Len())
}
