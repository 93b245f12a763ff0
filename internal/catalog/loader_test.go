package catalog

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMenu = `{
	"name": "Test Kitchen",
	"address": "1 Test Road",
	"menu": [
		{"id": 1, "name": "Dosa", "price": 40},
		{"id": 2, "name": "Masala Dosa", "price": 60}
	]
}`

// writeMenuFile writes content to a temporary file, gzipping it when the name ends in .gz.
func writeMenuFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	if filepath.Ext(name) == ".gz" {
		gz := gzip.NewWriter(file)
		_, err = gz.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		return path
	}

	_, err = file.WriteString(content)
	require.NoError(t, err)
	return path
}

func TestFileLoader_Load(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  string
		wantSize int
	}{
		{
			name:     "Plain JSON",
			file:     "menu.json",
			content:  testMenu,
			wantSize: 2,
		},
		{
			name:     "Gzipped JSON",
			file:     "menu.json.gz",
			content:  testMenu,
			wantSize: 2,
		},
		{
			name:    "Invalid JSON",
			file:    "broken.json",
			content: "{not json",
			wantErr: "failed to decode",
		},
		{
			name:    "Invalid menu",
			file:    "empty.json",
			content: `{"name": "Nothing", "menu": []}`,
			wantErr: "at least one item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeMenuFile(t, tt.file, tt.content)

			restaurant, err := loader.Load(context.Background(), path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, restaurant)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Test Kitchen", restaurant.Name)
			assert.Len(t, restaurant.Menu, tt.wantSize)
		})
	}
}

func TestFileLoader_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open menu file")
}

func TestFileLoader_CancelledContext(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := writeMenuFile(t, "menu.json", testMenu)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
