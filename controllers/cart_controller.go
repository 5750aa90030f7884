package controllers

import (
	"errors"
	"io"
	"net/http"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// AddToCart godoc
// @Summary Add to cart
// @Description Adds the product or increases its quantity. Signed-in users use their token; guests send guest_id.
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body models.AddToCartRequest true "Product and quantity"
// @Param X-Guest-ID header string false "Guest id"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/add [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	cart, err := ctrl.carts.Add(c.Request.Context(), resolveOwner(c, req.GuestID), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, "Failed to add to cart", err)
		return
	}

	respondOK(c, http.StatusOK, "Item added to cart", cart)
}

// GetCart godoc
// @Summary Get cart
// @Tags Cart
// @Produce json
// @Param guest_id query string false "Guest id"
// @Param X-Guest-ID header string false "Guest id"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.carts.Get(c.Request.Context(), resolveOwner(c, ""))
	if err != nil {
		respondError(c, "Failed to get cart", err)
		return
	}

	respondOK(c, http.StatusOK, "Cart retrieved successfully", cart)
}

// UpdateCartItem godoc
// @Summary Update cart quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart item ID"
// @Param request body models.UpdateCartQuantityRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/{id} [patch]
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	cart, err := ctrl.carts.UpdateQuantity(c.Request.Context(), resolveOwner(c, req.GuestID), id, req.Quantity)
	if err != nil {
		respondError(c, "Failed to update cart", err)
		return
	}

	respondOK(c, http.StatusOK, "Cart updated successfully", cart)
}

// RemoveCartItem godoc
// @Summary Remove cart item
// @Tags Cart
// @Produce json
// @Param id path string true "Cart item ID"
// @Param guest_id query string false "Guest id"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/{id} [delete]
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cart, err := ctrl.carts.Remove(c.Request.Context(), resolveOwner(c, ""), id)
	if err != nil {
		respondError(c, "Failed to remove cart item", err)
		return
	}

	respondOK(c, http.StatusOK, "Item removed from cart", cart)
}

// ResetCart godoc
// @Summary Empty cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body models.GuestRequest false "Guest id"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/reset [post]
func (ctrl *CartController) ResetCart(c *gin.Context) {
	// the body is optional here
	var req models.GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.carts.Reset(c.Request.Context(), resolveOwner(c, req.GuestID)); err != nil {
		respondError(c, "Failed to reset cart", err)
		return
	}

	respondOK(c, http.StatusOK, "Cart cleared", nil)
}
