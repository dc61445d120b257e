package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewResetTokenDigestMatchesPlaintext(t *testing.T) {
	plain, digest, err := NewResetToken()
	require.NoError(t, err)
	require.Len(t, plain, 40) // 20 random bytes, hex encoded
	require.Len(t, digest, 64)
	require.NotEqual(t, plain, digest)
	require.Equal(t, digest, HashToken(plain))
}

func TestNewResetTokenIsUnpredictable(t *testing.T) {
	a, _, err := NewResetToken()
	require.NoError(t, err)
	b, _, err := NewResetToken()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCanModify(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	publisher := &User{ID: owner, Role: RolePublisher}
	require.True(t, publisher.CanModify(owner))
	require.False(t, publisher.CanModify(other))

	admin := &User{ID: other, Role: RoleAdmin}
	require.True(t, admin.CanModify(owner))

	plain := &User{ID: other, Role: RoleUser}
	require.False(t, plain.CanModify(owner))
}
