package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func productFilterFromQuery(c *gin.Context) (models.ProductFilter, error) {
	page, limit := getPaginationParams(c)
	filter := models.ProductFilter{
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
		Page:   page,
		Limit:  limit,
	}
	if filter.Search == "" {
		filter.Search = c.Query("search")
	}

	var err error
	if filter.CategoryID, err = optionalUUIDQuery(c, "category"); err != nil {
		return filter, err
	}
	if filter.SubCategoryID, err = optionalUUIDQuery(c, "subcategory"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = optionalDecimalQuery(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalDecimalQuery(c, "max_price"); err != nil {
		return filter, err
	}
	if raw := c.Query("on_sale"); raw != "" {
		filter.OnSale, _ = strconv.ParseBool(raw)
	}
	return filter, nil
}

func (ctrl *ProductController) list(c *gin.Context, filter models.ProductFilter, message string) {
	result, err := ctrl.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get products", err)
		return
	}
	respondPage(c, message, result)
}

// GetAllProducts godoc
// @Summary List published products
// @Tags Products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param q query string false "Search by name"
// @Param category query string false "Category ID"
// @Param subcategory query string false "Subcategory ID"
// @Param min_price query number false "Minimum discounted price"
// @Param max_price query number false "Maximum discounted price"
// @Param sort query string false "newest, price_asc, price_desc, name_asc, name_desc"
// @Success 200 {object} models.PaginationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /product [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	filter, err := productFilterFromQuery(c)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}
	filter.PublishedOnly = true
	ctrl.list(c, filter, "Products retrieved successfully")
}

// GetSaleProducts godoc
// @Summary List discounted products
// @Tags Products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.PaginationResponse
// @Router /product/sale [get]
func (ctrl *ProductController) GetSaleProducts(c *gin.Context) {
	filter, err := productFilterFromQuery(c)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}
	filter.PublishedOnly = true
	filter.OnSale = true
	ctrl.list(c, filter, "Sale products retrieved successfully")
}

// GetProductByID godoc
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /product/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.products.GetByID(c.Request.Context(), id, false)
	if err != nil {
		respondError(c, "Product not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", product)
}

// GetProductBySlug godoc
// @Summary Get product by slug
// @Tags Products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /product/slug/{slug} [get]
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	product, err := ctrl.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, "Product not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", product)
}

// AdminGetAllProducts godoc
// @Summary List all products
// @Description Includes unpublished products
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param q query string false "Search by name"
// @Success 200 {object} models.PaginationResponse
// @Router /admin/product [get]
func (ctrl *ProductController) AdminGetAllProducts(c *gin.Context) {
	filter, err := productFilterFromQuery(c)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}
	ctrl.list(c, filter, "Products retrieved successfully")
}

// AdminGetProductByID godoc
// @Summary Get any product
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/product/{id} [get]
func (ctrl *ProductController) AdminGetProductByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.products.GetByID(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, "Product not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", product)
}

// CreateProduct godoc
// @Summary Create product
// @Tags Admin - Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/product [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	product, err := ctrl.products.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create product", err)
		return
	}

	respondOK(c, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct godoc
// @Summary Update product
// @Tags Admin - Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/product/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	product, err := ctrl.products.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update product", err)
		return
	}

	respondOK(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct godoc
// @Summary Delete product
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/product/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete product", err)
		return
	}

	respondOK(c, http.StatusOK, "Product deleted successfully", nil)
}

// ExportProducts godoc
// @Summary Export products
// @Description Download every product as an Excel workbook
// @Tags Admin - Products
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /admin/products/export [get]
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.products.Export(c.Request.Context(), &buf); err != nil {
		respondError(c, "Failed to export products", err)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, libs.XLSXContentType, buf.Bytes())
}
