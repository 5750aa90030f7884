package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	users   *services.UserService
	maxSize int64
}

func NewProfileController(users *services.UserService, maxUploadSize int64) *ProfileController {
	return &ProfileController{users: users, maxSize: maxUploadSize}
}

// Me godoc
// @Summary Current user
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /user/me [get]
func (ctrl *ProfileController) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	user, err := ctrl.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to get profile", err)
		return
	}

	respondOK(c, http.StatusOK, "Profile retrieved successfully", user)
}

// Edit godoc
// @Summary Update profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 409 {object} models.ErrorResponse
// @Router /user/edit [put]
func (ctrl *ProfileController) Edit(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	user, err := ctrl.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}

	respondOK(c, http.StatusOK, "Profile updated successfully", user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /user/change-password [put]
func (ctrl *ProfileController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	if err := ctrl.users.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, "Failed to change password", err)
		return
	}

	respondOK(c, http.StatusOK, "Password changed successfully", nil)
}

// UploadAvatar godoc
// @Summary Upload avatar
// @Tags Profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/upload-avatar [put]
func (ctrl *ProfileController) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		badRequest(c, "Avatar file is required", err)
		return
	}
	if err := utils.ValidateImage(fileHeader, ctrl.maxSize); err != nil {
		badRequest(c, "Invalid avatar", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Failed to read avatar", err)
		return
	}
	defer file.Close()

	userID, _ := middleware.CurrentUserID(c)
	user, err := ctrl.users.UploadAvatar(c.Request.Context(), userID, file, utils.SanitizeFilename(fileHeader.Filename))
	if err != nil {
		respondError(c, "Failed to upload avatar", err)
		return
	}

	respondOK(c, http.StatusOK, "Avatar updated successfully", user)
}
