package services

import (
	"context"
	"io"

	"storefront/models"
)

type Mailer interface {
	SendVerificationEmail(to, name, code string) error
	SendPasswordResetOTP(to, name, otp string) error
	SendOrderConfirmation(to string, order *models.Order) error
}

type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string) (*models.UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

type OrderBroadcaster interface {
	Broadcast(eventType string, order *models.Order)
}
