package controllers

import (
	"net/http"
	"strings"
	"time"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthController struct {
	auth    *services.AuthService
	cookies CookieConfig
}

func NewAuthController(auth *services.AuthService, cookies CookieConfig) *AuthController {
	return &AuthController{auth: auth, cookies: cookies}
}

func (ctrl *AuthController) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	if ctrl.cookies.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", ctrl.cookies.Secure, true)
}

func (ctrl *AuthController) clearCookies(c *gin.Context) {
	ctrl.setCookie(c, middleware.AccessTokenCookie, "", -time.Second)
	ctrl.setCookie(c, middleware.RefreshTokenCookie, "", -time.Second)
}

// Register godoc
// @Summary Register new user
// @Description Create a customer account and email a verification code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /user/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	user, err := ctrl.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Registration failed", err)
		return
	}

	respondOK(c, http.StatusCreated, "User registered successfully. Please verify your email", user)
}

// VerifyEmail godoc
// @Summary Verify email
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.VerifyEmailRequest true "Verification code"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /user/verify-email [post]
func (ctrl *AuthController) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.auth.VerifyEmail(c.Request.Context(), req.Code); err != nil {
		respondError(c, "Email verification failed", err)
		return
	}

	respondOK(c, http.StatusOK, "Email verified successfully", nil)
}

// ResendVerification godoc
// @Summary Resend verification email
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResendVerificationRequest true "Account email"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/resend-verification [post]
func (ctrl *AuthController) ResendVerification(c *gin.Context) {
	var req models.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, "Failed to resend verification email", err)
		return
	}

	respondOK(c, http.StatusOK, "Verification email sent", nil)
}

// Login godoc
// @Summary Login
// @Description Issue access and refresh tokens. A guest_id merges that guest cart into the account.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /user/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	if req.GuestID == "" {
		req.GuestID = c.GetHeader(GuestIDHeader)
	}

	resp, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}

	ctrl.setCookie(c, middleware.AccessTokenCookie, resp.AccessToken, ctrl.cookies.AccessTTL)
	ctrl.setCookie(c, middleware.RefreshTokenCookie, resp.RefreshToken, ctrl.cookies.RefreshTTL)

	respondOK(c, http.StatusOK, "Login successful", resp)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Reads the refresh token from the cookie, the body or the Authorization header
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RefreshTokenRequest false "Refresh token"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /user/refresh-token [post]
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req models.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Success: false, Message: "Refresh token required"})
		return
	}

	accessToken, err := ctrl.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, "Token refresh failed", err)
		return
	}

	ctrl.setCookie(c, middleware.AccessTokenCookie, accessToken, ctrl.cookies.AccessTTL)
	respondOK(c, http.StatusOK, "Access token refreshed", gin.H{"access_token": accessToken})
}

// Logout godoc
// @Summary Logout
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /user/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	if err := ctrl.auth.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, "Logout failed", err)
		return
	}

	ctrl.clearCookies(c)
	respondOK(c, http.StatusOK, "Logout successful", nil)
}

// ForgotPassword godoc
// @Summary Request password reset OTP
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Email"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /user/forgot-password [put]
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, "Failed to send OTP", err)
		return
	}

	respondOK(c, http.StatusOK, "OTP sent to your email", nil)
}

// VerifyForgotPasswordOTP godoc
// @Summary Verify password reset OTP
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.VerifyOTPRequest true "Email and OTP"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /user/verify-forgot-password-otp [put]
func (ctrl *AuthController) VerifyForgotPasswordOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.auth.VerifyForgotPasswordOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		respondError(c, "OTP verification failed", err)
		return
	}

	respondOK(c, http.StatusOK, "OTP verified successfully", nil)
}

// ResetPassword godoc
// @Summary Reset password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "New password"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /user/reset-password [put]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.auth.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, "Password reset failed", err)
		return
	}

	respondOK(c, http.StatusOK, "Password updated successfully", nil)
}
