package courses

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateMinimumSkill(t *testing.T) {
	require.NoError(t, ValidateMinimumSkill("beginner"))
	require.NoError(t, ValidateMinimumSkill("intermediate"))
	require.NoError(t, ValidateMinimumSkill("advanced"))
	require.Error(t, ValidateMinimumSkill("expert"))
	require.Error(t, ValidateMinimumSkill(""))
}

func TestValidateCreate(t *testing.T) {
	req := &CreateRequest{
		Title:        "Full Stack Web Development",
		Description:  "Twelve weeks of web fundamentals",
		Weeks:        "12",
		Tuition:      9000,
		MinimumSkill: "beginner",
	}
	require.NoError(t, ValidateCreate(req))

	req.Tuition = 0
	require.Error(t, ValidateCreate(req))
}
