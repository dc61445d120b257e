package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func strPtr(s string) *string { return &s }

func TestBuildProfileUpdatesClearsBioAndWebsite(t *testing.T) {
	req := &UpdateProfileRequest{Bio: strPtr(""), Website: strPtr("")}

	updates, err := buildProfileUpdates(req)
	require.NoError(t, err)
	require.Equal(t, bson.M{"bio": "", "website": ""}, updates)
}

func TestBuildProfileUpdatesLeavesAbsentFields(t *testing.T) {
	updates, err := buildProfileUpdates(&UpdateProfileRequest{})
	require.NoError(t, err)
	require.Empty(t, updates)
}

func TestBuildProfileUpdatesPartial(t *testing.T) {
	req := &UpdateProfileRequest{
		Name: strPtr("John Doe"),
		Bio:  strPtr("Full stack developer"),
	}

	updates, err := buildProfileUpdates(req)
	require.NoError(t, err)
	require.Equal(t, bson.M{"name": "John Doe", "bio": "Full stack developer"}, updates)
	require.NotContains(t, updates, "email")
	require.NotContains(t, updates, "website")
}

func TestBuildProfileUpdatesRejectsInvalidEmail(t *testing.T) {
	_, err := buildProfileUpdates(&UpdateProfileRequest{Email: strPtr("not-an-email")})
	require.Error(t, err)
}

func TestBuildProfileUpdatesRejectsEmptyName(t *testing.T) {
	_, err := buildProfileUpdates(&UpdateProfileRequest{Name: strPtr("")})
	require.Error(t, err)
}
