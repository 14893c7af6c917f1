package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("Dev User", "dev@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "Dev User", user.Name)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))

	assert.Equal(t, SubscriptionStatusInactive, user.SubscriptionStatus)
	require.NotNil(t, user.TrialEndsAt)
	assert.WithinDuration(t, time.Now().Add(TrialPeriod), *user.TrialEndsAt, time.Minute)
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "missing name", userName: "", email: "dev@example.com", password: "secret123"},
		{name: "short name", userName: "ab", email: "dev@example.com", password: "secret123"},
		{name: "invalid email", userName: "Dev User", email: "not-an-email", password: "secret123"},
		{name: "short password", userName: "Dev User", email: "dev@example.com", password: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUser(tt.userName, tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestSetPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("changed456"))
	assert.True(t, user.CheckPassword("changed456"))
}
