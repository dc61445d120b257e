package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestNormalizeConvertsReferences(t *testing.T) {
	doc := normalize(map[string]interface{}{
		"_id":      "5d713995b721c3bb38c1f5d0",
		"bootcamp": "5d713995b721c3bb38c1f5d0",
		"user":     "5d7a514b5d2c12c7449be042",
		"title":    "Learned a ton",
	})

	want, _ := primitive.ObjectIDFromHex("5d713995b721c3bb38c1f5d0")
	require.Equal(t, want, doc["_id"])
	require.Equal(t, want, doc["bootcamp"])
	require.Equal(t, "Learned a ton", doc["title"])
	require.NotNil(t, doc["createdAt"])
	require.NotNil(t, doc["updatedAt"])
}

func TestNormalizeKeepsMalformedReference(t *testing.T) {
	doc := normalize(map[string]interface{}{"_id": "not-hex"})
	require.Equal(t, "not-hex", doc["_id"])
}

func TestFixupHashesSeedPasswords(t *testing.T) {
	doc := normalize(map[string]interface{}{"email": "admin@devtrail.dev", "password": "123456"})
	fixup("users", doc)

	hashed, ok := doc["password"].(string)
	require.True(t, ok)
	require.NotEqual(t, "123456", hashed)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("123456")))
	require.Equal(t, true, doc["active"])
}

func TestFixupSlugsBootcamps(t *testing.T) {
	doc := normalize(map[string]interface{}{"name": "Devworks Bootcamp"})
	fixup("bootcamps", doc)
	require.Equal(t, "devworks-bootcamp", doc["slug"])
}

func TestFixupMarksReviewsLive(t *testing.T) {
	doc := normalize(map[string]interface{}{"title": "Great"})
	fixup("reviews", doc)
	require.Equal(t, false, doc["deleted"])
}
