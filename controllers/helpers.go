package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/middleware"
	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const GuestIDHeader = "X-Guest-ID"

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrOwnerRequired),
		errors.Is(err, models.ErrInvalidOTP):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrAccountInactive),
		errors.Is(err, models.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	resp := models.ErrorResponse{Success: false, Message: message}

	log.Printf("%s %s: %d %s: %v", c.Request.Method, c.Request.URL.Path, status, message, err)

	var validationErr *models.ValidationError
	switch {
	case status == http.StatusInternalServerError:
		// details stay in the log
	case errors.As(err, &validationErr):
		resp.Error = validationErr.Error()
	case errors.Is(err, models.ErrNotFound):
		resp.Error = models.ErrNotFound.Error()
	default:
		resp.Error = rootError(err).Error()
	}
	c.JSON(status, resp)
}

// rootError returns the innermost wrapped error, which for the sentinels is
// the part worth showing to clients.
func rootError(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	log.Printf("%s %s: %d %s: %v", c.Request.Method, c.Request.URL.Path, http.StatusBadRequest, message, err)
	c.JSON(http.StatusBadRequest, resp)
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{Success: true, Message: message, Data: data})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, models.NewValidationError(name, "must be a valid id")
	}
	return &id, nil
}

func optionalDecimalQuery(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, models.NewValidationError(name, "must be a number")
	}
	return &d, nil
}

// optionalDateQuery accepts RFC3339 or YYYY-MM-DD. A bare date used as the
// upper bound covers the whole day.
func optionalDateQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, models.NewValidationError(name, "must be YYYY-MM-DD or RFC3339")
	}
	if endOfDay {
		t = t.Add(24 * time.Hour)
	}
	return &t, nil
}

func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultPageLimit)))
	return models.NormalizePaging(page, limit)
}

func generateLinks(c *gin.Context, page, limit, totalPages int) models.PaginationLinks {
	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}

	host := c.Request.Host
	path := c.Request.URL.Path
	queryParams := c.Request.URL.Query()

	makeURL := func(pageNum int) string {
		newParams := url.Values{}
		for key, values := range queryParams {
			if key == "page" || key == "limit" {
				continue
			}
			for _, value := range values {
				newParams.Add(key, value)
			}
		}
		newParams.Set("page", strconv.Itoa(pageNum))
		newParams.Set("limit", strconv.Itoa(limit))
		return fmt.Sprintf("%s://%s%s?%s", scheme, host, path, newParams.Encode())
	}

	links := models.PaginationLinks{
		Self: makeURL(page),
	}
	if page > 1 {
		links.Prev = makeURL(page - 1)
	}
	if page < totalPages {
		links.Next = makeURL(page + 1)
	}
	return links
}

func respondPage[T any](c *gin.Context, message string, page *models.Page[T]) {
	meta := page.Meta()
	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: message,
		Data:    page.Items,
		Meta:    meta,
		Links:   generateLinks(c, meta.Page, meta.Limit, meta.TotalPages),
	})
}

// resolveOwner prefers the authenticated user, then the guest id from the
// body, the query string or the X-Guest-ID header.
func resolveOwner(c *gin.Context, bodyGuestID string) models.Owner {
	if userID, ok := middleware.CurrentUserID(c); ok {
		return models.UserOwner(userID)
	}
	for _, guestID := range []string{bodyGuestID, c.Query("guest_id"), c.GetHeader(GuestIDHeader)} {
		if guestID = strings.TrimSpace(guestID); guestID != "" {
			return models.GuestOwner(guestID)
		}
	}
	return models.Owner{}
}
