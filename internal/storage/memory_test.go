package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage("archives")

	_, err := m.GeneratePresignedDownloadURL(ctx, "missing.json", 0)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, m.PutObject(ctx, "alice/a.json", "application/json", []byte(`{}`)))

	u, err := m.GeneratePresignedDownloadURL(ctx, "alice/a.json", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "memory://archives/alice/a.json?"))

	obj, ok := m.Object("alice/a.json")
	require.True(t, ok)
	assert.Equal(t, "application/json", obj.ContentType)

	require.NoError(t, m.DeleteObject(ctx, "alice/a.json"))
	assert.ErrorIs(t, m.DeleteObject(ctx, "alice/a.json"), ErrObjectNotFound)
}
