package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	u := &User{Email: "a@example.com"}
	assert.NoError(t, u.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, RoleUser, u.Role)
	assert.False(t, u.IsAdmin())

	admin := &User{Role: RoleAdmin}
	assert.NoError(t, admin.BeforeCreate(nil))
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())
}

func TestGender_Valid(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderAny} {
		assert.True(t, g.Valid(), g)
	}
	assert.False(t, Gender("other").Valid())
	assert.False(t, Gender("").Valid())
}

func TestChat_Counterpart(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	msg := &Chat{SenderID: a, RecipientID: b}
	assert.Equal(t, b, msg.Counterpart(a))
	assert.Equal(t, a, msg.Counterpart(b))
}
