package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("student@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, "", user.ID.String())
	assert.Equal(t, "student@example.com", user.Email)
	assert.Equal(t, "correct horse battery", user.Password)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "empty email",
			email:    "",
			password: "a valid password",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "email without at sign",
			email:    "not-an-email",
			password: "a valid password",
			wantErr:  ErrInvalidEmailFormat,
		},
		{
			name:     "email without domain dot",
			email:    "user@localhost",
			password: "a valid password",
			wantErr:  ErrInvalidEmailFormat,
		},
		{
			name:     "password too short",
			email:    "user@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			email:    "user@example.com",
			password: strings.Repeat("x", 73),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "empty password",
			email:    "user@example.com",
			password: "",
			wantErr:  ErrEmptyPassword,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, err := NewUser(tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, user)
		})
	}
}

func TestUserValidateHashedOnly(t *testing.T) {
	t.Parallel()

	user, err := NewUser("user@example.com", "a valid password")
	require.NoError(t, err)

	// After registration the plaintext is cleared and only the hash remains.
	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, user.Validate())
}
