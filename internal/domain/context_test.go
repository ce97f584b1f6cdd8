package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDContextRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithUserID(context.Background(), id)

	got, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestUserIDFromContext_Absent(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestUserIDContextKeyIsPrivate(t *testing.T) {
	// A foreign key named like ours must not collide with the typed key
	type foreignKey string
	ctx := context.WithValue(context.Background(), foreignKey("user_id"), uuid.New())

	_, ok := UserIDFromContext(ctx)
	assert.False(t, ok)
}
