package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))
}

func TestLoggerFrom(t *testing.T) {
	assert.NotNil(t, LoggerFrom(context.Background()))

	logger := zap.NewExample()
	assert.Same(t, logger, LoggerFrom(WithLogger(context.Background(), logger)))
	assert.NotNil(t, LoggerFrom(WithLogger(context.Background(), nil)))
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithLogger(WithSuppressHeader(context.Background()), logger)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx))
			assert.Same(t, logger, LoggerFrom(ctx))
		})
	}
	wg.Wait()
}
