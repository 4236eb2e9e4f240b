package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/onboarding"
)

func newTestUserService(t *testing.T) (UserService, *fakeUserRepo, *fakePointRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	pointRepo := newFakePointRepo()
	return NewUserService(userRepo, pointRepo), userRepo, pointRepo
}

func TestRegisterUser(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	user, err := svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: " Budi@Example.com ",
		Name:  "Budi Santoso",
	})
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", user.Email)
	assert.NotZero(t, user.ID)

	_, err = svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "budi@example.com",
		Name:  "Budi Lagi",
	})
	assert.ErrorIs(t, err, entity.ErrUserAlreadyExists)

	_, err = svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "not-an-email",
		Name:  "X",
	})
	assert.ErrorIs(t, err, entity.ErrInvalidEmail)
}

func TestCompleteOnboardingCreditsPoints(t *testing.T) {
	svc, _, pointRepo := newTestUserService(t)

	user, err := svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "siti@example.com",
		Name:  "Siti Rahma",
	})
	require.NoError(t, err)

	profile := &onboarding.Profile{
		Username:      "siti_smash",
		Nickname:      "Siti",
		FullName:      "Siti Rahma",
		DateOfBirth:   "1995-04-12",
		Gender:        "female",
		City:          "Tangerang",
		Occupation:    "Designer",
		ShirtSize:     "M",
		ReferralCode:  "REF123",
		PlayGoals:     []string{"fun", "fitness"},
		PlayLevel:     "intermediate",
		PlayFrequency: "weekly",
		OtherHobbies:  []string{"running"},
		ProfilePhotoURL: "https://cdn.example.com/siti.jpg",
		MediaConsent:    true,
	}

	breakdown, err := svc.CompleteOnboarding(context.Background(), user.ID, profile)
	require.NoError(t, err)

	assert.Equal(t, int64(300), breakdown.PersonalData)
	assert.Equal(t, int64(85), breakdown.PlayStyle)
	assert.Equal(t, int64(60), breakdown.PhotoConsent)
	assert.Equal(t, int64(445), breakdown.Total)

	balance, err := pointRepo.Balance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(445), balance)

	updated, err := svc.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, updated.Onboarded)
	assert.Equal(t, "siti_smash", updated.Username)

	// Second submission is rejected, the bonus is one-time.
	_, err = svc.CompleteOnboarding(context.Background(), user.ID, profile)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestCompleteOnboardingRejectsBadIdentity(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	user, err := svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "andi@example.com",
		Name:  "Andi",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		profile onboarding.Profile
	}{
		{name: "username too short", profile: onboarding.Profile{Username: "ab", Nickname: "Andi"}},
		{name: "username bad chars", profile: onboarding.Profile{Username: "andi!", Nickname: "Andi"}},
		{name: "empty nickname", profile: onboarding.Profile{Username: "andi_99", Nickname: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CompleteOnboarding(context.Background(), user.ID, &tt.profile)
			assert.ErrorIs(t, err, entity.ErrInvalidInput)
		})
	}
}

func TestRewardHistory(t *testing.T) {
	svc, _, pointRepo := newTestUserService(t)

	user, err := svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "dewi@example.com",
		Name:  "Dewi",
	})
	require.NoError(t, err)

	require.NoError(t, pointRepo.Append(context.Background(), &entity.PointEntry{
		UserID: user.ID, Points: 100, Reason: entity.PointReasonOnboarding,
	}))
	require.NoError(t, pointRepo.Append(context.Background(), &entity.PointEntry{
		UserID: user.ID, Points: 150, Reason: entity.PointReasonTicketPurchase,
	}))

	balance, err := svc.GetRewardBalance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	history, err := svc.GetRewardHistory(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = svc.GetRewardBalance(context.Background(), 999)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestAdjustPoints(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	user, err := svc.RegisterUser(context.Background(), &RegisterUserRequest{
		Email: "rudi@example.com",
		Name:  "Rudi",
	})
	require.NoError(t, err)

	entry, err := svc.AdjustPoints(context.Background(), user.ID, 200, "compensation for cancelled session")
	require.NoError(t, err)
	assert.Equal(t, entity.PointReasonAdminAdjust, entry.Reason)

	balance, err := svc.GetRewardBalance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance)

	// Deduction within balance is fine, below zero is not.
	_, err = svc.AdjustPoints(context.Background(), user.ID, -150, "correction")
	require.NoError(t, err)

	_, err = svc.AdjustPoints(context.Background(), user.ID, -100, "too much")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.AdjustPoints(context.Background(), user.ID, 0, "noop")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.AdjustPoints(context.Background(), 999, 10, "ghost")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
