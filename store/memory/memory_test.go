package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiquidN2/natours/store"
)

func newUser(email string) *store.User {
	return &store.User{
		Name:         "Test User",
		Email:        email,
		Role:         store.RoleUser,
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
		Active:       true,
	}
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("Alice@X.com")
	require.NoError(t, s.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@x.com", u.Email)

	byEmail, err := s.FindByEmail(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", byID.Email)
}

func TestCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Create(ctx, newUser("a@x.com")))
	err := s.Create(ctx, newUser("A@X.COM"))
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestFindersHideInactiveUsers(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("a@x.com")
	u.EmailConfirmToken = "confirmhash"
	exp := time.Now().Add(10 * time.Minute)
	u.PasswordResetToken = "resethash"
	u.PasswordResetExpires = &exp
	require.NoError(t, s.Create(ctx, u))

	u.Active = false
	require.NoError(t, s.Save(ctx, u))

	_, err := s.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindByResetTokenHash(ctx, "resethash", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindByConfirmTokenHash(ctx, "confirmhash")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindByResetTokenHashRespectsExpiry(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("a@x.com")
	exp := time.Now().Add(-time.Minute)
	u.PasswordResetToken = "resethash"
	u.PasswordResetExpires = &exp
	require.NoError(t, s.Create(ctx, u))

	_, err := s.FindByResetTokenHash(ctx, "resethash", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)

	exp = time.Now().Add(time.Minute)
	u.PasswordResetExpires = &exp
	require.NoError(t, s.Save(ctx, u))

	found, err := s.FindByResetTokenHash(ctx, "resethash", time.Now())
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestUpdateByID(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("a@x.com")
	u.TwoFactorEnabled = true
	u.TwoFactorSecret = "SECRET"
	require.NoError(t, s.Create(ctx, u))

	confirmed := true
	updated, err := s.UpdateByID(ctx, u.ID, store.Update{EmailConfirmed: &confirmed})
	require.NoError(t, err)
	assert.True(t, updated.EmailConfirmed)
	assert.Equal(t, "SECRET", updated.TwoFactorSecret)

	disabled := false
	empty := ""
	updated, err = s.UpdateByID(ctx, u.ID, store.Update{
		TwoFactorEnabled: &disabled,
		TwoFactorSecret:  &empty,
	})
	require.NoError(t, err)
	assert.False(t, updated.TwoFactorEnabled)
	assert.Empty(t, updated.TwoFactorSecret)
}

func TestFindReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("a@x.com")
	require.NoError(t, s.Create(ctx, u))

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Email = "mutated@x.com"

	again, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", again.Email)
}
