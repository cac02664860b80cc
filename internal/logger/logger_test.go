package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/blam/errs"
)

func TestJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("hidden")
	require.Zero(t, buf.Len())

	log.With("tag", "a.bitmap").Warn("sequence split", "sheets", 2)
	require.Contains(t, buf.String(), `"msg":"sequence split"`)
	require.Contains(t, buf.String(), `"tag":"a.bitmap"`)
	require.Contains(t, buf.String(), `"sheets":2`)
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelDebug).WithGroup("scan").With("plate", "blue")
	log.Debug("found bitmap", "name", "a b", "width", 4)

	out := buf.String()
	require.Contains(t, out, "DEBUG")
	require.Contains(t, out, "found bitmap")
	require.Contains(t, out, "scan.plate=blue")
	require.Contains(t, out, `scan.name="a b"`)
	require.Contains(t, out, "scan.width=4")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestForFormat(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range []string{"pretty", "text", "json"} {
		l, err := ForFormat(&buf, f, slog.LevelInfo)
		require.NoError(t, err)
		l.Info("hello")
	}
	_, err := ForFormat(&buf, "xml", slog.LevelInfo)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestContext(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))
	FromContext(ctx).Info("from context")
	require.Contains(t, buf.String(), "from context")

	OrDiscard(nil).Error("dropped")
}
