package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jansteyn/aquaedit/internal/buffer"
	"github.com/jansteyn/aquaedit/internal/config"
	"github.com/jansteyn/aquaedit/internal/logging"
)

// openBuffer loads config, builds a logger, and opens path through a
// fresh buffer, printing each index-build progress tick whose
// percentage is a multiple of 25.
func openBuffer(ctx context.Context, path string) (*buffer.Buffer, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logFile == "" {
		logFile = cfg.LogFile
	}
	logger := logging.New(logging.Options{FilePath: logFile})

	b := buffer.New(
		buffer.WithWindowLength(cfg.WindowLengthBytes),
		buffer.WithCacheCapacity(cfg.CacheCapacity),
		buffer.WithEncoding(buffer.ParseEncoding(cfg.Encoding)),
		buffer.WithLogger(logger),
	)

	progress := func(percent int) {
		if percent%25 == 0 {
			fmt.Fprintf(os.Stderr, "indexing: %d%%\n", percent)
		}
	}
	if err := b.Open(ctx, path, progress); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return b, nil
}
