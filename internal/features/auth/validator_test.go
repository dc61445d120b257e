package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("dev@example.com"))
	require.Error(t, ValidateEmail("not-an-email"))
	require.Error(t, ValidateEmail("missing@tld"))
	require.Error(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("123456"))
	require.Error(t, ValidatePassword("12345"))
}

func TestValidateRegisterRole(t *testing.T) {
	require.NoError(t, ValidateRegisterRole(""))
	require.NoError(t, ValidateRegisterRole(RoleUser))
	require.NoError(t, ValidateRegisterRole(RolePublisher))
	require.Error(t, ValidateRegisterRole(RoleAdmin))
	require.Error(t, ValidateRegisterRole("superuser"))
}

func TestValidateRegister(t *testing.T) {
	req := &RegisterRequest{Name: "Dev User", Email: "dev@example.com", Password: "123456"}
	require.NoError(t, ValidateRegister(req))

	req.Role = RoleAdmin
	require.Error(t, ValidateRegister(req))
}
