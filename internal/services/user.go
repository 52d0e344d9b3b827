package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"eventpages/internal/domain"
)

const (
	loginCodeLength   = 6
	loginCodeTTL      = 10 * time.Minute
	sessionTokenTTL   = 72 * time.Hour
	templateLoginCode = "login_code"
)

type userService struct {
	userRepo       domain.UserRepository
	codeRepo       domain.LoginCodeRepository
	hasher         domain.CodeHasher
	issuer         domain.TokenIssuer
	emailService   domain.EmailService
	contextTimeout time.Duration
}

func NewUserService(
	userRepo domain.UserRepository,
	codeRepo domain.LoginCodeRepository,
	hasher domain.CodeHasher,
	issuer domain.TokenIssuer,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		hasher:         hasher,
		issuer:         issuer,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

// generateLoginCode returns a zero-padded numeric code.
func generateLoginCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < loginCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", loginCodeLength, n.Int64()), nil
}

func (s *userService) RequestLoginCode(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.ErrInvalidInput
	}

	code, err := generateLoginCode()
	if err != nil {
		return fmt.Errorf("generate login code: %w", err)
	}
	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("hash login code: %w", err)
	}
	if err := s.codeRepo.Create(ctx, email, codeHash, time.Now().Add(loginCodeTTL)); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}

	_, err = s.emailService.Enqueue(ctx, templateLoginCode, email, map[string]string{
		"Code":             code,
		"ExpiresInMinutes": strconv.Itoa(int(loginCodeTTL.Minutes())),
	})
	if err != nil {
		return fmt.Errorf("enqueue login code email: %w", err)
	}
	return nil
}

func (s *userService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || code == "" {
		return "", nil, domain.ErrInvalidInput
	}

	id, codeHash, err := s.codeRepo.GetActive(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidInput
		}
		return "", nil, fmt.Errorf("get login code: %w", err)
	}
	if err := s.hasher.Compare(codeHash, code); err != nil {
		return "", nil, domain.ErrInvalidInput
	}
	// Codes are single use.
	if err := s.codeRepo.Delete(ctx, id); err != nil {
		return "", nil, fmt.Errorf("delete login code: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("get user: %w", err)
		}
		// First login creates the account.
		now := time.Now()
		user = domain.NewUser(email, "", "", now, now)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("create user: %w", err)
		}
	}

	token, err := s.issuer.Issue(user.ID, user.Email, sessionTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user.ID == "" {
		return domain.ErrInvalidInput
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
