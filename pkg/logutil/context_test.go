package logutil_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubebridge/kubebridge/pkg/logutil"
)

func TestContextRoundTrip(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := logutil.WithContext(t.Context(), logger)
	assert.Same(t, logger, logutil.FromContext(ctx))
}

func TestFromContext_Unset(t *testing.T) {
	assert.Same(t, slog.Default(), logutil.FromContext(t.Context()))
}
