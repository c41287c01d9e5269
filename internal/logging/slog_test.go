package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, false)
	ctx := context.Background()

	log.Debug(ctx, "deriving key", "iterations", 100000)
	log.Info(ctx, "credential store ready", "users", 2)
	log.Warn(ctx, "store is corrupt", "backup", "b.json")
	log.Error(ctx, "save failed", "attempt", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", `msg="deriving key"`, "iterations=100000"},
		{"INFO", `msg="credential store ready"`, "users=2"},
		{"WARN", `msg="store is corrupt"`, "backup=b.json"},
		{"ERROR", `msg="save failed"`, "attempt=3"},
	}
	for i, tc := range tests {
		assert.Contains(t, lines[i], "level="+tc.level)
		assert.Contains(t, lines[i], tc.msg)
		assert.Contains(t, lines[i], tc.attr)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, true)

	child := log.With("op", "register", "username", "alice")
	child.Info(context.Background(), "registered", "result", "success")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "registered", rec["msg"])
	assert.Equal(t, "register", rec["op"])
	assert.Equal(t, "alice", rec["username"])
	assert.Equal(t, "success", rec["result"])
}

func TestNew_TextAndJSON(t *testing.T) {
	var text bytes.Buffer
	New(&text, slog.LevelInfo, false).Info(context.Background(), "store loaded", "users", 2)
	assert.Contains(t, text.String(), `msg="store loaded"`)
	assert.Contains(t, text.String(), "users=2")

	var js bytes.Buffer
	New(&js, slog.LevelInfo, true).Info(context.Background(), "store loaded", "users", 2)
	assert.Contains(t, js.String(), `"msg":"store loaded"`)
	assert.Contains(t, js.String(), `"users":2`)
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, false).Debug(context.Background(), "hashing password")
	assert.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().With("k", "v").Error(context.TODO(), "discarded")
	})
}
