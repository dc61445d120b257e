package bootcamps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("Devworks Bootcamp"))
	require.Error(t, ValidateName(""))
	require.Error(t, ValidateName(strings.Repeat("a", MaxNameLength+1)))
}

func TestValidateDescription(t *testing.T) {
	require.NoError(t, ValidateDescription("A great place to learn"))
	require.Error(t, ValidateDescription(""))
	require.Error(t, ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)))
}

func TestValidateCareers(t *testing.T) {
	require.NoError(t, ValidateCareers([]string{"Web Development", "UI/UX"}))
	require.Error(t, ValidateCareers(nil))
	require.Error(t, ValidateCareers([]string{"Underwater Basket Weaving"}))
}

func TestValidateWebsite(t *testing.T) {
	require.NoError(t, ValidateWebsite(""))
	require.NoError(t, ValidateWebsite("https://devworks.com"))
	require.NoError(t, ValidateWebsite("http://devworks.com"))
	require.Error(t, ValidateWebsite("devworks.com"))
}

func TestValidateCreate(t *testing.T) {
	req := &CreateRequest{
		Name:        "Devworks Bootcamp",
		Description: "Full stack web development",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development"},
	}
	require.NoError(t, ValidateCreate(req))

	req.Address = ""
	require.Error(t, ValidateCreate(req))
}
