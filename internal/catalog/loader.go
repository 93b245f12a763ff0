package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"whatsapp-order-bot/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for menu documents on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based menu loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "menu-loader").Logger(),
	}
}

// Load reads a JSON restaurant document. Files ending in .gz are decompressed first.
func (l *fileLoader) Load(ctx context.Context, path string) (*model.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", path).Msg("loading menu file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open menu file")
		return nil, fmt.Errorf("failed to open menu file %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	restaurant, err := decode(r)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read menu file")
		return nil, fmt.Errorf("menu file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Str("restaurant", restaurant.Name).
		Int("items", len(restaurant.Menu)).
		Msg("menu file loaded successfully")

	return restaurant, nil
}
