package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetAllUsers godoc
// @Summary List users
// @Tags Admin - Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by name or email"
// @Param role query string false "ADMIN or USER"
// @Param status query string false "Active, Inactive or Suspended"
// @Success 200 {object} models.PaginationResponse
// @Router /admin/users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	page, limit := getPaginationParams(c)
	filter := models.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	result, err := ctrl.users.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get users", err)
		return
	}

	respondPage(c, "Users retrieved successfully", result)
}

// GetUserByID godoc
// @Summary Get user
// @Tags Admin - Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [get]
func (ctrl *UserController) GetUserByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "User not found", err)
		return
	}

	respondOK(c, http.StatusOK, "User retrieved successfully", user)
}

// CreateUser godoc
// @Summary Create user
// @Tags Admin - Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "User"
// @Success 201 {object} models.Response{data=models.User}
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/users [post]
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	user, err := ctrl.users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create user", err)
		return
	}

	respondOK(c, http.StatusCreated, "User created successfully", user)
}

// UpdateUser godoc
// @Summary Update user
// @Tags Admin - Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [patch]
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	user, err := ctrl.users.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(c, "Failed to update user", err)
		return
	}

	respondOK(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete user
// @Tags Admin - Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	if err := ctrl.users.Delete(c.Request.Context(), actorID, id); err != nil {
		respondError(c, "Failed to delete user", err)
		return
	}

	respondOK(c, http.StatusOK, "User deleted successfully", nil)
}

// GetCustomers godoc
// @Summary Customers report
// @Description USER accounts with order count and completed spend
// @Tags Admin - Reports
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by name or email"
// @Success 200 {object} models.PaginationResponse
// @Router /admin/customers [get]
func (ctrl *UserController) GetCustomers(c *gin.Context) {
	page, limit := getPaginationParams(c)
	filter := models.UserFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	result, err := ctrl.users.Customers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get customers", err)
		return
	}

	respondPage(c, "Customers retrieved successfully", result)
}
