package controllers

import (
	"log"
	"net/http"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
	feed   *libs.OrderFeed
}

func NewOrderController(orders *services.OrderService, feed *libs.OrderFeed) *OrderController {
	return &OrderController{orders: orders, feed: feed}
}

func orderFilterFromQuery(c *gin.Context) (models.OrderFilter, error) {
	page, limit := getPaginationParams(c)
	filter := models.OrderFilter{
		PaymentStatus: c.Query("status"),
		Search:        c.Query("search"),
		Page:          page,
		Limit:         limit,
	}
	if filter.PaymentStatus == "" {
		filter.PaymentStatus = c.Query("payment_status")
	}

	var err error
	if filter.From, err = optionalDateQuery(c, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = optionalDateQuery(c, "to", true); err != nil {
		return filter, err
	}
	return filter, nil
}

// Checkout godoc
// @Summary Checkout
// @Description Turns the caller's cart into a Pending order and empties the cart
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Billing details and optional references"
// @Param X-Guest-ID header string false "Guest id"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /order/checkout [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	order, err := ctrl.orders.Checkout(c.Request.Context(), resolveOwner(c, req.GuestID), req)
	if err != nil {
		respondError(c, "Checkout failed", err)
		return
	}

	respondOK(c, http.StatusCreated, "Order placed successfully", order)
}

// CreateOrder godoc
// @Summary Create order
// @Description Stores an order document as posted by the client; totals are recomputed
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Order"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /order [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	order, err := ctrl.orders.Create(c.Request.Context(), resolveOwner(c, req.GuestID), req)
	if err != nil {
		respondError(c, "Failed to create order", err)
		return
	}

	respondOK(c, http.StatusCreated, "Order created successfully", order)
}

// GetMyOrders godoc
// @Summary List my orders
// @Tags Orders
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param guest_id query string false "Guest id"
// @Success 200 {object} models.PaginationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /order [get]
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}

	result, err := ctrl.orders.ListMine(c.Request.Context(), resolveOwner(c, ""), filter)
	if err != nil {
		respondError(c, "Failed to get orders", err)
		return
	}

	respondPage(c, "Orders retrieved successfully", result)
}

// GetMyOrder godoc
// @Summary Get my order
// @Tags Orders
// @Produce json
// @Param id path string true "Order row id or order reference"
// @Param guest_id query string false "Guest id"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /order/{id} [get]
func (ctrl *OrderController) GetMyOrder(c *gin.Context) {
	order, err := ctrl.orders.GetMine(c.Request.Context(), resolveOwner(c, ""), c.Param("id"))
	if err != nil {
		respondError(c, "Order not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", order)
}

// GetAllOrders godoc
// @Summary Get all orders
// @Description Get all orders with pagination (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by payment status"
// @Param search query string false "Search by order id, email or name"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} models.PaginationResponse
// @Router /admin/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}

	result, err := ctrl.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get orders", err)
		return
	}

	respondPage(c, "Orders retrieved successfully", result)
}

// GetOrderByID godoc
// @Summary Get order
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order row id or order reference"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	order, err := ctrl.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Order not found", err)
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", order)
}

// UpdateOrder godoc
// @Summary Update order
// @Tags Admin - Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order row id or order reference"
// @Param request body models.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [patch]
func (ctrl *OrderController) UpdateOrder(c *gin.Context) {
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	order, err := ctrl.orders.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, "Failed to update order", err)
		return
	}

	respondOK(c, http.StatusOK, "Order updated successfully", order)
}

// DeleteOrder godoc
// @Summary Delete order
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order row id or order reference"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [delete]
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	if err := ctrl.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete order", err)
		return
	}

	respondOK(c, http.StatusOK, "Order deleted successfully", nil)
}

// OrderFeed godoc
// @Summary Live order feed
// @Description Websocket stream of order.created, order.updated and order.deleted events
// @Tags Admin - Orders
// @Security BearerAuth
// @Router /admin/orders/feed [get]
func (ctrl *OrderController) OrderFeed(c *gin.Context) {
	if err := ctrl.feed.Serve(c.Writer, c.Request); err != nil {
		log.Printf("Order feed upgrade failed: %v", err)
	}
}

// GetDashboard godoc
// @Summary Dashboard statistics
// @Tags Admin - Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.DashboardStats}
// @Router /admin/dashboard [get]
func (ctrl *OrderController) GetDashboard(c *gin.Context) {
	stats, err := ctrl.orders.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get dashboard", err)
		return
	}

	respondOK(c, http.StatusOK, "Dashboard retrieved successfully", stats)
}

// GetRevenue godoc
// @Summary Revenue report
// @Description Completed-order revenue grouped by day, month or year
// @Tags Admin - Reports
// @Security BearerAuth
// @Produce json
// @Param period query string false "day, month or year"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} models.Response{data=[]models.RevenuePoint}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/revenue [get]
func (ctrl *OrderController) GetRevenue(c *gin.Context) {
	from, err := optionalDateQuery(c, "from", false)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}
	to, err := optionalDateQuery(c, "to", true)
	if err != nil {
		respondError(c, "Invalid request", err)
		return
	}

	points, err := ctrl.orders.Revenue(c.Request.Context(), c.Query("period"), from, to)
	if err != nil {
		respondError(c, "Failed to get revenue", err)
		return
	}

	respondOK(c, http.StatusOK, "Revenue retrieved successfully", points)
}
