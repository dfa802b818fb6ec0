package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AppendsAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	ctx := WithLogger(context.Background(), logger)
	ctx = With(ctx, "source", "site.xlsx")
	FromContext(ctx).Info("hello")

	require.Contains(t, buf.String(), "source=site.xlsx")
	require.Contains(t, buf.String(), "msg=hello")
}
