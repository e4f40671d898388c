package web

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/rowview/internal/dataset"
	"github.com/okra-platform/rowview/internal/navigator"
)

func TestRenderer_Embedded(t *testing.T) {
	tests := []struct {
		name        string
		view        navigator.View
		contains    []string
		notContains []string
	}{
		{
			name:        "no dataset",
			view:        navigator.View{},
			contains:    []string{`type="file"`, `accept=".csv"`},
			notContains: []string{"<h2>Row", "/navigate/"},
		},
		{
			name: "middle row",
			view: navigator.View{
				HasDataset: true,
				Row:        dataset.Row{{Column: "a", Value: "1"}, {Column: "b", Value: "2"}},
				Index:      1,
				Total:      3,
				CanPrev:    true,
				CanNext:    true,
			},
			contains: []string{"Row 2 of 3", "<b>a</b>: 1", "<b>b</b>: 2", "/navigate/prev", "/navigate/next"},
		},
		{
			name: "last row",
			view: navigator.View{
				HasDataset: true,
				Row:        dataset.Row{{Column: "a", Value: "9"}},
				Index:      2,
				Total:      3,
				CanPrev:    true,
			},
			contains:    []string{"Row 3 of 3", "/navigate/prev"},
			notContains: []string{"/navigate/next"},
		},
	}

	r, err := NewRenderer("", ".csv")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, tt.view))

			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderer_AcceptFollowsExtension(t *testing.T) {
	// Test: the upload form offers the configured extension
	r, err := NewRenderer("", ".tsv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, navigator.View{}))
	assert.Contains(t, buf.String(), `accept=".tsv"`)
}

func TestRenderer_Directory(t *testing.T) {
	// Test: templates are read from disk and a broken reload keeps the old set
	dir := t.TempDir()
	page := filepath.Join(dir, pageTemplate)
	require.NoError(t, os.WriteFile(page, []byte(`v1 {{.Total}}`), 0644))

	r, err := NewRenderer(dir, ".csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, navigator.View{Total: 4}))
	assert.Equal(t, "v1 4", buf.String())

	require.NoError(t, os.WriteFile(page, []byte(`v2 {{.Total}}`), 0644))
	require.NoError(t, r.Reload())
	buf.Reset()
	require.NoError(t, r.Render(&buf, navigator.View{Total: 4}))
	assert.Equal(t, "v2 4", buf.String())

	require.NoError(t, os.WriteFile(page, []byte(`{{if}}`), 0644))
	assert.Error(t, r.Reload())
	buf.Reset()
	require.NoError(t, r.Render(&buf, navigator.View{Total: 4}))
	assert.Equal(t, "v2 4", buf.String())
}

func TestNewRenderer_MissingPage(t *testing.T) {
	// Test: a directory without index.html is rejected
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.html"), []byte(`x`), 0644))

	_, err := NewRenderer(dir, ".csv")
	assert.Error(t, err)
}
