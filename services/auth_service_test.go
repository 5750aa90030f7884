package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = TokenConfig{
	AccessSecret:  "access",
	RefreshSecret: "refresh",
	AccessTTL:     time.Minute,
	RefreshTTL:    time.Hour,
}

type authFixture struct {
	svc    *AuthService
	users  *fakeUserStore
	carts  *fakeCartStore
	store  *libs.MemoryStore
	mailer *fakeMailer
}

func newAuthFixture(t *testing.T, users ...models.User) *authFixture {
	t.Helper()
	f := &authFixture{
		users:  newFakeUserStore(users...),
		carts:  &fakeCartStore{products: newFakeProductStore()},
		store:  libs.NewMemoryStore(),
		mailer: &fakeMailer{},
	}
	f.svc = NewAuthService(f.users, NewCartService(f.carts, f.carts.products), f.store, f.mailer, testTokens)
	return f
}

func activeUser(t *testing.T, email, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return models.User{
		ID:          uuid.New(),
		Name:        "Test User",
		Email:       email,
		Password:    hash,
		Role:        models.RoleUser,
		Status:      models.StatusActive,
		VerifyEmail: true,
	}
}

func TestRegisterAndVerifyEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	user, err := f.svc.Register(ctx, models.RegisterRequest{Name: " Ana ", Email: " Ana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, user.VerifyEmail)

	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrEmailNotVerified)

	mail, ok := f.mailer.last("verify")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", mail.to)

	require.NoError(t, f.svc.VerifyEmail(ctx, mail.code))
	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyEmail)

	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, mail.code), models.ErrInvalidToken, "codes are single use")

	_, err = f.svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ANA@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	active := activeUser(t, "ok@example.com", "secret1")
	suspended := activeUser(t, "off@example.com", "secret1")
	suspended.Status = models.StatusSuspended
	f := newAuthFixture(t, active, suspended)

	tests := []struct {
		name    string
		req     models.LoginRequest
		wantErr error
	}{
		{"unknown email", models.LoginRequest{Email: "no@example.com", Password: "secret1"}, models.ErrInvalidCredentials},
		{"wrong password", models.LoginRequest{Email: "ok@example.com", Password: "nope"}, models.ErrInvalidCredentials},
		{"inactive", models.LoginRequest{Email: "off@example.com", Password: "secret1"}, models.ErrAccountInactive},
		{"ok", models.LoginRequest{Email: "OK@example.com", Password: "secret1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Login(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			claims, err := utils.ValidateToken(testTokens.AccessSecret, resp.AccessToken, utils.TokenTypeAccess)
			require.NoError(t, err)
			assert.Equal(t, active.ID.String(), claims.UserID)

			stored, err := f.users.FindByID(ctx, active.ID)
			require.NoError(t, err)
			assert.Equal(t, resp.RefreshToken, stored.RefreshToken)
			assert.NotNil(t, stored.LastLoginDate)
		})
	}
}

func TestLoginMergesGuestCart(t *testing.T) {
	ctx := context.Background()
	user := activeUser(t, "buyer@example.com", "secret1")
	f := newAuthFixture(t, user)

	productID := uuid.New()
	_, err := f.carts.Add(ctx, models.GuestOwner("guest-1"), productID, 2)
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, models.UserOwner(user.ID), productID, 1)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, models.LoginRequest{Email: user.Email, Password: "secret1", GuestID: "guest-1"})
	require.NoError(t, err)

	guestItems, _ := f.carts.FindByOwner(ctx, models.GuestOwner("guest-1"))
	assert.Empty(t, guestItems)

	userItems, _ := f.carts.FindByOwner(ctx, models.UserOwner(user.ID))
	require.Len(t, userItems, 1)
	assert.Equal(t, 3, userItems[0].Quantity)
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	user := activeUser(t, "r@example.com", "secret1")
	f := newAuthFixture(t, user)

	resp, err := f.svc.Login(ctx, models.LoginRequest{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)

	access, err := f.svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	_, err = utils.ValidateToken(testTokens.AccessSecret, access, utils.TokenTypeAccess)
	assert.NoError(t, err)

	_, err = f.svc.Refresh(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken, "access tokens cannot refresh")

	require.NoError(t, f.svc.Logout(ctx, user.ID))
	_, err = f.svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken, "logout revokes the refresh token")
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	user := activeUser(t, "reset@example.com", "oldpass")
	f := newAuthFixture(t, user)

	reset := models.ResetPasswordRequest{Email: user.Email, NewPassword: "newpass", ConfirmPassword: "newpass"}

	var validationErr *models.ValidationError
	assert.ErrorAs(t, f.svc.ResetPassword(ctx, reset), &validationErr, "otp must be verified first")

	require.NoError(t, f.svc.ForgotPassword(ctx, user.Email))
	mail, ok := f.mailer.last("otp")
	require.True(t, ok)
	assert.Len(t, mail.code, 6)

	assert.ErrorIs(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, "000000x"), models.ErrInvalidOTP)
	require.NoError(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, mail.code))
	assert.ErrorIs(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, mail.code), models.ErrInvalidOTP, "otp is single use")

	mismatch := reset
	mismatch.ConfirmPassword = "other"
	assert.ErrorAs(t, f.svc.ResetPassword(ctx, mismatch), &validationErr)

	require.NoError(t, f.svc.ResetPassword(ctx, reset))

	_, err := f.svc.Login(ctx, models.LoginRequest{Email: user.Email, Password: "oldpass"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, models.LoginRequest{Email: user.Email, Password: "newpass"})
	assert.NoError(t, err)

	assert.Error(t, f.svc.ResetPassword(ctx, reset), "reset permission is consumed")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	assert.ErrorIs(t, f.svc.ForgotPassword(context.Background(), "ghost@example.com"), models.ErrNotFound)
}

func TestOTPLocksAfterRepeatedMisses(t *testing.T) {
	ctx := context.Background()
	user := activeUser(t, "locked@example.com", "oldpass")
	f := newAuthFixture(t, user)

	require.NoError(t, f.svc.ForgotPassword(ctx, user.Email))
	mail, ok := f.mailer.last("otp")
	require.True(t, ok)

	for i := 0; i < maxOTPAttempts; i++ {
		assert.ErrorIs(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, "abcdef"), models.ErrInvalidOTP)
	}
	assert.ErrorIs(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, mail.code), models.ErrInvalidOTP,
		"the right code no longer works once the attempts are used up")

	_, err := f.store.Get(ctx, otpKeyPrefix+user.ID.String())
	assert.ErrorIs(t, err, libs.ErrCacheMiss, "the otp is discarded")

	// requesting a new otp does not reset the attempt window
	require.NoError(t, f.svc.ForgotPassword(ctx, user.Email))
	fresh, ok := f.mailer.last("otp")
	require.True(t, ok)
	assert.ErrorIs(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, fresh.code), models.ErrInvalidOTP)

	reset := models.ResetPasswordRequest{Email: user.Email, NewPassword: "newpass", ConfirmPassword: "newpass"}
	var validationErr *models.ValidationError
	assert.ErrorAs(t, f.svc.ResetPassword(ctx, reset), &validationErr)
}

func TestOTPSuccessClearsMisses(t *testing.T) {
	ctx := context.Background()
	user := activeUser(t, "retry@example.com", "oldpass")
	f := newAuthFixture(t, user)

	require.NoError(t, f.svc.ForgotPassword(ctx, user.Email))
	mail, _ := f.mailer.last("otp")
	for i := 0; i < maxOTPAttempts-1; i++ {
		assert.ErrorIs(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, "abcdef"), models.ErrInvalidOTP)
	}
	require.NoError(t, f.svc.VerifyForgotPasswordOTP(ctx, user.Email, mail.code))

	_, err := f.store.Get(ctx, otpTriesKeyPrefix+user.ID.String())
	assert.ErrorIs(t, err, libs.ErrCacheMiss)
}

var errStoreDown = errors.New("store down")

// flakyStore fails writes while down is set.
type flakyStore struct {
	libs.Store
	down bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.down {
		return errStoreDown
	}
	return s.Store.Set(ctx, key, value, ttl)
}

func TestRegisterRemovesUserWhenCodeCannotBeStored(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	store := &flakyStore{Store: f.store, down: true}
	svc := NewAuthService(f.users, NewCartService(f.carts, f.carts.products), store, f.mailer, testTokens)

	req := models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"}
	_, err := svc.Register(ctx, req)
	require.ErrorIs(t, err, errStoreDown)

	_, err = f.users.FindByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound, "no unverifiable account is left behind")
	_, sent := f.mailer.last("verify")
	assert.False(t, sent)

	store.down = false
	user, err := svc.Register(ctx, req)
	require.NoError(t, err, "the email is free to register again")
	mail, ok := f.mailer.last("verify")
	require.True(t, ok)
	require.NoError(t, svc.VerifyEmail(ctx, mail.code))
	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyEmail)
}

func TestResendVerification(t *testing.T) {
	ctx := context.Background()
	verified := activeUser(t, "done@example.com", "secret1")
	f := newAuthFixture(t, verified)

	user, err := f.svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	first, _ := f.mailer.last("verify")

	require.NoError(t, f.svc.ResendVerification(ctx, " ANA@example.com "))
	second, ok := f.mailer.last("verify")
	require.True(t, ok)
	assert.NotEqual(t, first.code, second.code)

	require.NoError(t, f.svc.VerifyEmail(ctx, second.code))
	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyEmail)

	var validationErr *models.ValidationError
	assert.ErrorAs(t, f.svc.ResendVerification(ctx, "ana@example.com"), &validationErr, "already verified")
	assert.ErrorAs(t, f.svc.ResendVerification(ctx, verified.Email), &validationErr)
	assert.ErrorIs(t, f.svc.ResendVerification(ctx, "ghost@example.com"), models.ErrNotFound)
}

func TestResendVerificationIsRateLimited(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	_, err := f.svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < maxVerifyResends; i++ {
		require.NoError(t, f.svc.ResendVerification(ctx, "ana@example.com"))
	}
	var validationErr *models.ValidationError
	assert.ErrorAs(t, f.svc.ResendVerification(ctx, "ana@example.com"), &validationErr)
	assert.Len(t, f.mailer.sent, 1+maxVerifyResends)
}

func TestLoginResponseHidesRefreshToken(t *testing.T) {
	ctx := context.Background()
	user := activeUser(t, "json@example.com", "secret1")
	f := newAuthFixture(t, user)

	resp, err := f.svc.Login(ctx, models.LoginRequest{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RefreshToken)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "refresh_token")
	assert.NotContains(t, string(body), resp.RefreshToken)
}
