package controllers

import (
	"net/http"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// GetAllCategories godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Category}
// @Router /category [get]
func (ctrl *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.categories.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get categories", err)
		return
	}

	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetCategoryByID godoc
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.Response{data=models.Category}
// @Failure 404 {object} models.ErrorResponse
// @Router /category/{id} [get]
func (ctrl *CategoryController) GetCategoryByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Category not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Category retrieved successfully", category)
}

// CreateCategory godoc
// @Summary Create category
// @Tags Admin - Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CategoryRequest true "Category"
// @Success 201 {object} models.Response{data=models.Category}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/category [post]
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	category, err := ctrl.categories.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create category", err)
		return
	}

	respondOK(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags Admin - Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body models.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Category}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/category/{id} [put]
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	category, err := ctrl.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update category", err)
		return
	}

	respondOK(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory godoc
// @Summary Delete category
// @Description Also removes the category from subcategories and products
// @Tags Admin - Categories
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/category/{id} [delete]
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete category", err)
		return
	}

	respondOK(c, http.StatusOK, "Category deleted successfully", nil)
}

// GetAllSubCategories godoc
// @Summary List subcategories
// @Tags Categories
// @Produce json
// @Param category query string false "Only subcategories of this category"
// @Success 200 {object} models.Response{data=[]models.SubCategory}
// @Router /subcategory [get]
func (ctrl *CategoryController) GetAllSubCategories(c *gin.Context) {
	categoryID, err := optionalUUIDQuery(c, "category")
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}

	subs, err := ctrl.categories.GetAllSub(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, "Failed to get subcategories", err)
		return
	}

	respondOK(c, http.StatusOK, "Subcategories retrieved successfully", subs)
}

// GetSubCategoryByID godoc
// @Summary Get subcategory
// @Tags Categories
// @Produce json
// @Param id path string true "Subcategory ID"
// @Success 200 {object} models.Response{data=models.SubCategory}
// @Failure 404 {object} models.ErrorResponse
// @Router /subcategory/{id} [get]
func (ctrl *CategoryController) GetSubCategoryByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := ctrl.categories.GetSubByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Subcategory not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Subcategory retrieved successfully", sub)
}

// CreateSubCategory godoc
// @Summary Create subcategory
// @Tags Admin - Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SubCategoryRequest true "Subcategory"
// @Success 201 {object} models.Response{data=models.SubCategory}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/subcategory [post]
func (ctrl *CategoryController) CreateSubCategory(c *gin.Context) {
	var req models.SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	sub, err := ctrl.categories.CreateSub(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create subcategory", err)
		return
	}

	respondOK(c, http.StatusCreated, "Subcategory created successfully", sub)
}

// UpdateSubCategory godoc
// @Summary Update subcategory
// @Tags Admin - Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Subcategory ID"
// @Param request body models.UpdateSubCategoryRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.SubCategory}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/subcategory/{id} [put]
func (ctrl *CategoryController) UpdateSubCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	sub, err := ctrl.categories.UpdateSub(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update subcategory", err)
		return
	}

	respondOK(c, http.StatusOK, "Subcategory updated successfully", sub)
}

// DeleteSubCategory godoc
// @Summary Delete subcategory
// @Tags Admin - Categories
// @Security BearerAuth
// @Produce json
// @Param id path string true "Subcategory ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/subcategory/{id} [delete]
func (ctrl *CategoryController) DeleteSubCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categories.DeleteSub(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete subcategory", err)
		return
	}

	respondOK(c, http.StatusOK, "Subcategory deleted successfully", nil)
}
