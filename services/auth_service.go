package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"

	"github.com/google/uuid"
)

const (
	verifyEmailTTL   = 24 * time.Hour
	resetOTPTTL      = time.Hour
	resetAllowedTTL  = 15 * time.Minute
	resetOTPLength   = 6
	verifyCodeBytes  = 16
	verifyKeyPrefix  = "verify-email:"
	otpKeyPrefix     = "reset-otp:"
	resetOKKeyPrefix = "reset-allowed:"

	// Failed OTP checks and verification resends are counted per account
	// for the life of an OTP.
	maxOTPAttempts      = 5
	otpTriesKeyPrefix   = "reset-otp-tries:"
	maxVerifyResends    = 5
	verifyResendsPrefix = "verify-resend:"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindAll(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string, loginAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CartMerger interface {
	Merge(ctx context.Context, guestID string, userID uuid.UUID) error
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AuthService struct {
	users  UserStore
	carts  CartMerger
	store  libs.Store
	mailer Mailer
	tokens TokenConfig
	now    func() time.Time
}

func NewAuthService(users UserStore, carts CartMerger, store libs.Store, mailer Mailer, tokens TokenConfig) *AuthService {
	return &AuthService{
		users:  users,
		carts:  carts,
		store:  store,
		mailer: mailer,
		tokens: tokens,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s: %w", email, models.ErrDuplicate)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	code, err := s.storeVerificationCode(ctx, user)
	if err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			log.Printf("Failed to remove unverifiable user %s: %v", user.ID, delErr)
		}
		return nil, err
	}
	if err := s.mailer.SendVerificationEmail(user.Email, user.Name, code); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	return user, nil
}

func (s *AuthService) storeVerificationCode(ctx context.Context, user *models.User) (string, error) {
	code, err := utils.RandomToken(verifyCodeBytes)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, verifyKeyPrefix+code, user.ID.String(), verifyEmailTTL); err != nil {
		return "", fmt.Errorf("store verification code: %w", err)
	}
	return code, nil
}

// ResendVerification mails a fresh verification code to an account that has
// not verified its email yet.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.VerifyEmail {
		return models.NewValidationError("email", "email is already verified")
	}

	sent, err := s.store.Incr(ctx, verifyResendsPrefix+user.ID.String(), time.Hour)
	if err != nil {
		return err
	}
	if sent > maxVerifyResends {
		return models.NewValidationError("email", "too many verification emails, try again later")
	}

	code, err := s.storeVerificationCode(ctx, user)
	if err != nil {
		return err
	}
	if err := s.mailer.SendVerificationEmail(user.Email, user.Name, code); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, code string) error {
	key := verifyKeyPrefix + strings.TrimSpace(code)
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, libs.ErrCacheMiss) {
		return models.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return models.ErrInvalidToken
	}
	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.VerifyPassword(user.Password, req.Password) {
		return nil, models.ErrInvalidCredentials
	}
	if user.Status != models.StatusActive {
		return nil, models.ErrAccountInactive
	}
	if !user.VerifyEmail {
		return nil, models.ErrEmailNotVerified
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.SetRefreshToken(ctx, user.ID, resp.RefreshToken, &now); err != nil {
		return nil, err
	}
	resp.User.LastLoginDate = &now

	if guestID := strings.TrimSpace(req.GuestID); guestID != "" {
		if err := s.carts.Merge(ctx, guestID, user.ID); err != nil {
			log.Printf("Failed to merge guest cart %s into user %s: %v", guestID, user.ID, err)
		}
	}

	return resp, nil
}

func (s *AuthService) issueTokens(user *models.User) (*models.LoginResponse, error) {
	accessToken, err := utils.GenerateToken(s.tokens.AccessSecret, s.tokens.AccessTTL,
		utils.TokenTypeAccess, user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := utils.GenerateToken(s.tokens.RefreshSecret, s.tokens.RefreshTTL,
		utils.TokenTypeRefresh, user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// Refresh issues a new access token for a refresh token that is still the
// one stored on the user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := utils.ValidateToken(s.tokens.RefreshSecret, refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", models.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", models.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return "", models.ErrInvalidToken
	}
	if user.Status != models.StatusActive {
		return "", models.ErrAccountInactive
	}

	return utils.GenerateToken(s.tokens.AccessSecret, s.tokens.AccessTTL,
		utils.TokenTypeAccess, user.ID.String(), user.Email, user.Role)
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.SetRefreshToken(ctx, userID, "", nil)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	otp, err := utils.RandomDigits(resetOTPLength)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, otpKeyPrefix+user.ID.String(), otp, resetOTPTTL); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, resetOKKeyPrefix+user.ID.String()); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetOTP(user.Email, user.Name, otp); err != nil {
		log.Printf("Failed to send reset otp to %s: %v", user.Email, err)
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (s *AuthService) VerifyForgotPasswordOTP(ctx context.Context, email, otp string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	key := otpKeyPrefix + user.ID.String()
	triesKey := otpTriesKeyPrefix + user.ID.String()

	locked, err := s.otpLocked(ctx, triesKey)
	if err != nil {
		return err
	}
	if locked {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
		return models.ErrInvalidOTP
	}

	stored, err := s.store.Get(ctx, key)
	if errors.Is(err, libs.ErrCacheMiss) {
		return models.ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	if stored != strings.TrimSpace(otp) {
		tries, err := s.store.Incr(ctx, triesKey, resetOTPTTL)
		if err != nil {
			return err
		}
		if tries >= maxOTPAttempts {
			if err := s.store.Delete(ctx, key); err != nil {
				return err
			}
		}
		return models.ErrInvalidOTP
	}

	if err := s.store.Delete(ctx, key, triesKey); err != nil {
		return err
	}
	return s.store.Set(ctx, resetOKKeyPrefix+user.ID.String(), "1", resetAllowedTTL)
}

func (s *AuthService) otpLocked(ctx context.Context, triesKey string) (bool, error) {
	value, err := s.store.Get(ctx, triesKey)
	if errors.Is(err, libs.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	tries, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("otp attempts %q: %w", value, err)
	}
	return tries >= maxOTPAttempts, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return models.NewValidationError("confirm_password", "new password and confirm password must match")
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}

	key := resetOKKeyPrefix + user.ID.String()
	if _, err := s.store.Get(ctx, key); errors.Is(err, libs.ErrCacheMiss) {
		return models.NewValidationError("otp", "otp has not been verified")
	} else if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}
