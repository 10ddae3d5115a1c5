package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "a.json", want: FormatJSON},
		{path: "dir/a.YAML", want: FormatYAML},
		{path: "a.yml", want: FormatYAML},
		{path: "a.txt", wantErr: true},
		{path: "noext", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "card.json"))
	require.NoError(t, err)
	require.Equal(t, "Design System", doc.Name)
	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Nodes[0].Children, 2)
	require.Nil(t, doc.Nodes[0].Children[1].CornerRadius.Ptr(), "MIXED radius")
	require.Equal(t, 32.0, *doc.Nodes[0].Children[0].LineHeight.Ptr())

	_, err = Load(filepath.Join("testdata", "missing.json"))
	require.Error(t, err)

	_, err = Load("snapshot.txt")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr string
	}{
		{
			name:   "extra fields are ignored",
			data:   `{"name": "x", "nodes": [{"id": "1", "type": "FRAME", "name": "a", "absoluteBoundingBox": {"x": 0}}]}`,
			format: FormatJSON,
		},
		{
			name:    "missing id",
			data:    `{"nodes": [{"type": "FRAME", "name": "nameless"}]}`,
			format:  FormatJSON,
			wantErr: `node "nameless" has no id`,
		},
		{
			name:    "duplicate nested id",
			data:    "nodes:\n  - id: a\n    name: a\n    children:\n      - id: a\n        name: b\n",
			format:  FormatYAML,
			wantErr: `duplicate node id "a"`,
		},
		{
			name:    "malformed",
			data:    `{"nodes": [`,
			format:  FormatJSON,
			wantErr: "unexpected end",
		},
		{
			name:    "unknown format",
			data:    `{}`,
			format:  Format("toml"),
			wantErr: "unknown snapshot format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
