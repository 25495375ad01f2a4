package colobj_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colobj/colobj"
)

func TestNoopLoggerDiscards(t *testing.T) {
	l := colobj.NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestNewLoggerDefaultsToText(t *testing.T) {
	l := colobj.NewLogger(nil)
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	l := colobj.NewLogger(slog.NewTextHandler(&buf, nil)).WithField("pt")
	l.LogCommitCluster(context.Background(), 0, 3, nil)
	out := buf.String()
	assert.Contains(t, out, "field=pt")
	assert.Contains(t, out, "cluster committed")
}
