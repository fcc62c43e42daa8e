package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/agenda/internal/logger"
	"github.com/example/agenda/internal/models"
	"github.com/example/agenda/internal/repository"
	"github.com/example/agenda/internal/verify"
)

const minPhoneDigits = 10

// Service authorizes logins by one-time code and resolves the local user.
type Service interface {
	RequestCode(ctx context.Context, rawPhone string) (*CodeRequest, error)
	VerifyCode(ctx context.Context, rawPhone, code string) (*models.User, error)
}

// CodeRequest reports an accepted code-send back to the caller.
type CodeRequest struct {
	To        string `json:"to"`
	Status    string `json:"status"`
	AttemptID string `json:"attempt_id"`
}

type service struct {
	gateway  verify.Gateway
	userRepo repository.UserRepository
}

// NewService constructs the credential authorizer. The gateway is built once
// at startup and shared; it is not re-created per request.
func NewService(gateway verify.Gateway, userRepo repository.UserRepository) Service {
	return &service{gateway: gateway, userRepo: userRepo}
}

// RequestCode validates the phone input and asks the gateway to send a code.
func (s *service) RequestCode(ctx context.Context, rawPhone string) (*CodeRequest, error) {
	if verify.DigitCount(rawPhone) < minPhoneDigits {
		return nil, ErrPhoneRequired
	}

	phone := verify.Normalize(rawPhone)
	result, err := s.gateway.SendCode(ctx, phone)
	if err != nil {
		return nil, err
	}

	return &CodeRequest{To: phone, Status: result.Status, AttemptID: result.AttemptID}, nil
}

// VerifyCode checks the submitted code and resolves or creates the user.
// The reason a code fails (wrong, expired, rate-limited) is deliberately not
// exposed; callers only see ErrInvalidCredential.
func (s *service) VerifyCode(ctx context.Context, rawPhone, code string) (*models.User, error) {
	if rawPhone == "" {
		return nil, ErrPhoneRequired
	}
	if code == "" {
		return nil, ErrCodeRequired
	}

	// Must match the key used at send time exactly.
	phone := verify.Normalize(rawPhone)

	result, err := s.gateway.CheckCode(ctx, phone, code)
	if err != nil {
		logger.Error("[VerifyCode] gateway check failed", zap.String("error", err.Error()))
		return nil, ErrInvalidCredential
	}
	if !result.Approved {
		return nil, ErrInvalidCredential
	}

	return s.findOrCreateUser(ctx, phone)
}

// findOrCreateUser relies on the unique index on phone_number to settle
// concurrent first-logins: the loser of a create race refetches the
// winner's row instead of erroring.
func (s *service) findOrCreateUser(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		logger.Error("[VerifyCode] user lookup failed", zap.String("error", err.Error()))
		return nil, ErrSetupFailed
	}
	if user != nil {
		return user, nil
	}

	created := &models.User{
		PhoneNumber:   phone,
		Name:          defaultName(phone),
		Role:          models.RoleClient,
		SetupComplete: false,
	}

	if err := s.userRepo.Create(ctx, created); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, refetchErr := s.userRepo.GetByPhone(ctx, phone)
			if refetchErr != nil || existing == nil {
				logger.Error("[VerifyCode] refetch after duplicate failed", zap.String("phone", phone))
				return nil, ErrSetupFailed
			}
			return existing, nil
		}
		logger.Error("[VerifyCode] user create failed", zap.String("error", err.Error()))
		return nil, ErrSetupFailed
	}

	return created, nil
}

func defaultName(phone string) string {
	if len(phone) < 4 {
		return "User"
	}
	return fmt.Sprintf("User %s", phone[len(phone)-4:])
}
