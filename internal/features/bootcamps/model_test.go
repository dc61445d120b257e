package bootcamps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	require.Equal(t, "devworks-bootcamp", Slugify("Devworks Bootcamp"))
	require.Equal(t, "modern-tech-bootcamp", Slugify("Modern Tech  Bootcamp"))
}

func TestDeletedNameFreesUniqueIndex(t *testing.T) {
	id := primitive.NewObjectID()
	name := DeletedName(id)

	require.True(t, strings.HasPrefix(name, id.Hex()))
	require.True(t, strings.HasSuffix(name, "__DELETED"))

	// Two bootcamps never mangle to the same name.
	require.NotEqual(t, name, DeletedName(primitive.NewObjectID()))
}
