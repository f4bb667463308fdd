package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsInvalidScheduleTime(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", filepath.Join(t.TempDir(), "weather.db"))

	err := run(true, "7am", "")
	assert.Error(t, err)
}

func TestBatchTimeout(t *testing.T) {
	assert.Equal(t, 70*time.Second, batchTimeout(10*time.Second, 5))
}
