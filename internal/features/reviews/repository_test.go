package reviews

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestReviewIndexesExcludeSoftDeleted(t *testing.T) {
	indexes := reviewIndexes()
	require.Len(t, indexes, 1)

	unique := indexes[0]
	require.Equal(t, bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}}, unique.Keys)
	require.NotNil(t, unique.Options.Unique)
	require.True(t, *unique.Options.Unique)

	// Soft-deleted reviews fall outside the partial filter, so the author
	// may review the bootcamp again after deleting.
	require.Equal(t, bson.M{"deleted": bson.M{"$eq": false}}, unique.Options.PartialFilterExpression)
}
