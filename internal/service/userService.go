package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	repository "github.com/tisport/tisport/internal/database/postgres"
	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/onboarding"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo  repository.UserRepository
	pointRepo repository.PointRepository
}

func NewUserService(userRepo repository.UserRepository, pointRepo repository.PointRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		pointRepo: pointRepo,
	}
}

func (s *userService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, entity.ErrInvalidEmail
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", entity.ErrInvalidInput)
	}

	user := &entity.User{
		Email: email,
		Name:  strings.TrimSpace(req.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user registered")
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil || req.Nickname != nil {
		username := user.Username
		nickname := user.Nickname
		if req.Username != nil {
			username = *req.Username
		}
		if req.Nickname != nil {
			nickname = *req.Nickname
		}
		if err := onboarding.ValidateIdentity(username, nickname); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
		}
		user.Username = username
		user.Nickname = nickname
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) LinkTelegram(ctx context.Context, userID int64, telegramID string) error {
	if strings.TrimSpace(telegramID) == "" {
		return fmt.Errorf("%w: telegram id is required", entity.ErrInvalidInput)
	}
	return s.userRepo.SetTelegramID(ctx, userID, telegramID)
}

// CompleteOnboarding validates the wizard submission, stores the profile,
// scores it and credits the points to the ledger. Submitting twice is
// rejected so the bonus cannot be farmed.
func (s *userService) CompleteOnboarding(ctx context.Context, userID int64, profile *onboarding.Profile) (*onboarding.Breakdown, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Onboarded {
		return nil, fmt.Errorf("%w: onboarding already completed", entity.ErrInvalidInput)
	}

	if err := onboarding.ValidateIdentity(profile.Username, profile.Nickname); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	breakdown := onboarding.Score(profile)

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %v", err)
	}

	user.Username = profile.Username
	user.Nickname = profile.Nickname
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.MarkOnboarded(ctx, userID, profileJSON); err != nil {
		return nil, err
	}

	if breakdown.Total > 0 {
		entry := &entity.PointEntry{
			UserID: userID,
			Points: breakdown.Total,
			Reason: entity.PointReasonOnboarding,
			Note:   "profile wizard completed",
		}
		if err := s.pointRepo.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to credit onboarding points: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"points":  breakdown.Total,
	}).Info("onboarding completed")
	return &breakdown, nil
}

func (s *userService) GetRewardBalance(ctx context.Context, userID int64) (int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.pointRepo.Balance(ctx, userID)
}

func (s *userService) GetRewardHistory(ctx context.Context, userID int64) ([]*entity.PointEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.pointRepo.GetByUserID(ctx, userID)
}

// AdjustPoints appends a manual correction to a user's ledger. Points may be
// negative; the resulting balance may not.
func (s *userService) AdjustPoints(ctx context.Context, userID int64, points int64, note string) (*entity.PointEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if points == 0 {
		return nil, fmt.Errorf("%w: adjustment cannot be zero", entity.ErrInvalidInput)
	}

	if points < 0 {
		balance, err := s.pointRepo.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if balance+points < 0 {
			return nil, fmt.Errorf("%w: adjustment would make balance negative", entity.ErrInvalidInput)
		}
	}

	entry := &entity.PointEntry{
		UserID: userID,
		Points: points,
		Reason: entity.PointReasonAdminAdjust,
		Note:   note,
	}
	if err := s.pointRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"points":  points,
	}).Info("points adjusted")
	return entry, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.GetAll(ctx)
}
