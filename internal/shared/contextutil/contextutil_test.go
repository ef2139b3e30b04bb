package contextutil_test

import (
	"context"
	"testing"

	"go-leavesync/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSkipSync(t *testing.T) {
	ctx := context.Background()
	assert.False(t, contextutil.SkipSync(ctx))

	skipped := contextutil.WithSkipSync(ctx)
	assert.True(t, contextutil.SkipSync(skipped))
	assert.False(t, contextutil.SkipSync(ctx), "parent context must stay untouched")

	withRID := contextutil.WithRequestID(skipped, "rid-1")
	assert.True(t, contextutil.SkipSync(withRID))
	assert.Equal(t, "rid-1", contextutil.GetRequestID(withRID))
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()
	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))

	scoped := zap.NewNop()
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))

	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}

func TestExtractMetadata(t *testing.T) {
	assert.Empty(t, contextutil.ExtractMetadata(context.Background()).Fields())

	ctx := contextutil.WithUserID(contextutil.WithRequestID(context.Background(), "rid-1"), "u-1")
	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, contextutil.Metadata{RequestID: "rid-1", UserID: "u-1"}, md)
	assert.Equal(t, []zap.Field{zap.String("request_id", "rid-1"), zap.String("user_id", "u-1")}, md.Fields())
}
