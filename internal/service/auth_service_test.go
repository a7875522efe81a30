package service

import (
	"context"
	"testing"
	"time"

	"routeiq/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateProfileLeavesOmittedFieldsAlone(t *testing.T) {
	userID := primitive.NewObjectID()
	born := time.Date(1991, 4, 12, 0, 0, 0, 0, time.UTC)
	users := &fakeUserRepo{user: &domain.User{
		ID:          userID,
		Email:       "runner@example.com",
		FirstName:   "Ada",
		LastName:    "Kovacs",
		DateOfBirth: &born,
		Gender:      "female",
	}}
	svc := NewAuthService(users, "test-secret", time.Hour)

	updated, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{
		LastName: strp("Kovacs-Muir"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Kovacs-Muir", updated.LastName)
	// Fields the caller left out keep their stored values.
	assert.Equal(t, "Ada", updated.FirstName)
	require.NotNil(t, updated.DateOfBirth)
	assert.True(t, born.Equal(*updated.DateOfBirth))
	assert.Equal(t, "female", updated.Gender)

	assert.Equal(t, "Kovacs-Muir", users.user.LastName)
	assert.Equal(t, "Ada", users.user.FirstName)
	assert.Equal(t, "female", users.user.Gender)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret", time.Hour)

	_, err := svc.UpdateProfile(context.Background(), primitive.NewObjectID(), ProfileUpdate{
		FirstName: strp("Ghost"),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
