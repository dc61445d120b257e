package reviews

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRating(t *testing.T) {
	for rating := MinRating; rating <= MaxRating; rating++ {
		require.NoError(t, ValidateRating(rating))
	}
	require.Error(t, ValidateRating(0))
	require.Error(t, ValidateRating(11))
	require.Error(t, ValidateRating(-1))
}

func TestValidateTitle(t *testing.T) {
	require.NoError(t, ValidateTitle("Learned a ton"))
	require.Error(t, ValidateTitle(""))
	require.Error(t, ValidateTitle(strings.Repeat("a", MaxTitleLength+1)))
}

func TestValidateCreate(t *testing.T) {
	req := &CreateRequest{Title: "Learned a ton", Text: "Would recommend", Rating: 8}
	require.NoError(t, ValidateCreate(req))

	req.Rating = 11
	require.Error(t, ValidateCreate(req))
}
