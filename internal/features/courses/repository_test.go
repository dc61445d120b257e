package courses

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCeilToTen(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1, 10},
		{10, 10},
		{10.01, 20},
		{7333.33, 7340},
		{9999, 10000},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ceilToTen(tc.in), "ceilToTen(%v)", tc.in)
	}
}

func TestDeletedTitle(t *testing.T) {
	id := primitive.NewObjectID()
	require.Equal(t, id.Hex()+"__DELETED", DeletedTitle(id))
}
