package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
	GuestID  string `json:"guest_id"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"omitempty,min=2,max=100"`
	Email  string `json:"email" binding:"omitempty,email,max=255"`
	Mobile string `json:"mobile" binding:"omitempty,max=20"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6"`
	Mobile   string `json:"mobile" binding:"omitempty,max=20"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	Status   string `json:"status" binding:"omitempty,oneof=Active Inactive Suspended"`
}

type UpdateUserRequest struct {
	Name   string `json:"name" binding:"omitempty,min=2,max=100"`
	Mobile string `json:"mobile" binding:"omitempty,max=20"`
	Role   string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	Status string `json:"status" binding:"omitempty,oneof=Active Inactive Suspended"`
}

type CategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Image string `json:"image"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type SubCategoryRequest struct {
	Name        string      `json:"name" binding:"required,max=100"`
	Image       string      `json:"image"`
	CategoryIDs []uuid.UUID `json:"category_ids" binding:"required,min=1"`
}

type UpdateSubCategoryRequest struct {
	Name        *string     `json:"name"`
	Image       *string     `json:"image"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required,max=255"`
	Images         []string          `json:"images"`
	CategoryIDs    []uuid.UUID       `json:"category_ids"`
	SubCategoryIDs []uuid.UUID       `json:"subcategory_ids"`
	Unit           string            `json:"unit" binding:"max=50"`
	Stock          int               `json:"stock"`
	Price          decimal.Decimal   `json:"price"`
	Discount       decimal.Decimal   `json:"discount"`
	Description    string            `json:"description"`
	MoreDetails    map[string]string `json:"more_details"`
	Publish        bool              `json:"publish"`
}

// UpdateProductRequest leaves a field untouched when it is nil.
type UpdateProductRequest struct {
	Name           *string            `json:"name"`
	Images         []string           `json:"images"`
	CategoryIDs    []uuid.UUID        `json:"category_ids"`
	SubCategoryIDs []uuid.UUID        `json:"subcategory_ids"`
	Unit           *string            `json:"unit"`
	Stock          *int               `json:"stock"`
	Price          *decimal.Decimal   `json:"price"`
	Discount       *decimal.Decimal   `json:"discount"`
	Description    *string            `json:"description"`
	MoreDetails    *map[string]string `json:"more_details"`
	Publish        *bool              `json:"publish"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1,max=10000"`
	GuestID   string    `json:"guest_id"`
}

type UpdateCartQuantityRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1,max=10000"`
	GuestID  string `json:"guest_id"`
}

type GuestRequest struct {
	GuestID string `json:"guest_id"`
}

type CheckoutRequest struct {
	GuestID        string  `json:"guest_id"`
	OrderID        string  `json:"order_id" binding:"omitempty,max=64"`
	PaymentID      string  `json:"payment_id" binding:"omitempty,max=64"`
	InvoiceReceipt string  `json:"invoice_receipt" binding:"omitempty,max=64"`
	Billing        Billing `json:"billing"`
}

type CreateOrderRequest struct {
	GuestID        string      `json:"guest_id"`
	OrderID        string      `json:"order_id" binding:"omitempty,max=64"`
	PaymentID      string      `json:"payment_id" binding:"omitempty,max=64"`
	InvoiceReceipt string      `json:"invoice_receipt" binding:"omitempty,max=64"`
	Items          []OrderItem `json:"items" binding:"required,min=1"`
	Billing        Billing     `json:"billing"`
	PaymentStatus  string      `json:"payment_status"`
}

type UpdateOrderRequest struct {
	PaymentStatus  *string  `json:"payment_status"`
	InvoiceReceipt *string  `json:"invoice_receipt"`
	Billing        *Billing `json:"billing"`
}
