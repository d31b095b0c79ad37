package graphbuf

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialkit/graphbuf/core"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	logger.WithNodes(3).WithEdges(7).Debug("resized")

	out := buf.String()
	assert.Contains(t, out, "nodes=3")
	assert.Contains(t, out, "edges=7")
}

func TestIngestionLogging(t *testing.T) {
	var buf bytes.Buffer
	g := NewUndirected(func(o *Options) {
		o.Logger = NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	})
	require.NoError(t, g.IngestNodes([]core.WorldID{1, 2}, nil))

	out := buf.String()
	assert.Contains(t, out, "ingested nodes")
	assert.Contains(t, out, "nodes=2")
}
