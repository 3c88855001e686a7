package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediaflow/mediaflow/internal/config"
)

func TestLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", logLevel(config.Settings{}, false))
	assert.Equal(t, "warn", logLevel(config.Settings{LogLevel: "warn"}, false))
	assert.Equal(t, "debug", logLevel(config.Settings{LogLevel: "warn"}, true))
}

func TestApplyBulkConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Settings: config.Settings{MaxConcurrentFiles: 4, OutputDir: "/data/out"}}

	opts := bulkOptions{MaxConcurrent: 1}
	applyBulkConfig(&opts, cfg, false)
	assert.Equal(t, 4, opts.MaxConcurrent)
	assert.Equal(t, "/data/out", opts.OutputDir)

	// An explicit -j beats the file; an explicit -o beats the file.
	opts = bulkOptions{MaxConcurrent: 2, OutputDir: "/elsewhere"}
	applyBulkConfig(&opts, cfg, true)
	assert.Equal(t, 2, opts.MaxConcurrent)
	assert.Equal(t, "/elsewhere", opts.OutputDir)

	// A file without settings changes nothing.
	opts = bulkOptions{MaxConcurrent: 1}
	applyBulkConfig(&opts, &config.Config{}, false)
	assert.Equal(t, 1, opts.MaxConcurrent)
	assert.Equal(t, "", opts.OutputDir)
}
