package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"storefront/models"
	"storefront/utils"
)

const MaxImagesPerUpload = 10

type UploadService struct {
	uploader ImageUploader
	folder   string
	maxSize  int64
}

func NewUploadService(uploader ImageUploader, folder string, maxSize int64) *UploadService {
	return &UploadService{uploader: uploader, folder: folder, maxSize: maxSize}
}

func (s *UploadService) validate(file *multipart.FileHeader) error {
	if file == nil {
		return models.NewValidationError("image", "file is required")
	}
	if err := utils.ValidateImage(file, s.maxSize); err != nil {
		return models.NewValidationError("image", "%s: %v", file.Filename, err)
	}
	return nil
}

func (s *UploadService) uploadOne(ctx context.Context, fileHeader *multipart.FileHeader) (*models.UploadedImage, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	return s.uploader.Upload(ctx, file, utils.SanitizeFilename(fileHeader.Filename), s.folder)
}

func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadedImage, error) {
	if err := s.validate(file); err != nil {
		return nil, err
	}
	return s.uploadOne(ctx, file)
}

// UploadImages validates every file first, then uploads them in order. On
// failure the images already uploaded are deleted again.
func (s *UploadService) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]models.UploadedImage, error) {
	if len(files) == 0 {
		return nil, models.NewValidationError("images", "no files uploaded")
	}
	if len(files) > MaxImagesPerUpload {
		return nil, models.NewValidationError("images", "at most %d files per upload", MaxImagesPerUpload)
	}
	for _, file := range files {
		if err := s.validate(file); err != nil {
			return nil, err
		}
	}

	uploaded := make([]models.UploadedImage, 0, len(files))
	for _, file := range files {
		image, err := s.uploadOne(ctx, file)
		if err != nil {
			s.rollback(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, *image)
	}
	return uploaded, nil
}

func (s *UploadService) rollback(ctx context.Context, images []models.UploadedImage) {
	for _, image := range images {
		if err := s.uploader.Delete(ctx, image.PublicID); err != nil {
			log.Printf("Failed to roll back upload %s: %v", image.PublicID, err)
		}
	}
}
