package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront/models"
	"storefront/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrUploadNotConfigured = errors.New("image upload is not configured")

type CloudinaryOptions struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryService prefers the separate credentials and falls back to
// CLOUDINARY_URL.
func NewCloudinaryService(opts CloudinaryOptions) (*CloudinaryService, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	switch {
	case opts.CloudName != "" && opts.APIKey != "" && opts.APISecret != "":
		cld, err = cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	case opts.URL != "":
		cld, err = cloudinary.NewFromURL(opts.URL)
	default:
		return nil, ErrUploadNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) Upload(ctx context.Context, file io.Reader, filename, folder string) (*models.UploadedImage, error) {
	publicID := fmt.Sprintf("%d_%s", time.Now().UnixNano(), utils.SanitizeFilename(filename))

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if result == nil {
		return nil, errors.New("cloudinary response is nil")
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return nil, errors.New("both SecureURL and URL are empty")
	}

	return &models.UploadedImage{URL: url, PublicID: result.PublicID}, nil
}

func (s *CloudinaryService) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}

// PublicIDFromURL recovers "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1700000000/storefront/abc.jpg.
func PublicIDFromURL(url string) string {
	idx := strings.Index(url, "/upload/")
	if idx == -1 {
		return ""
	}
	rest := url[idx+len("/upload/"):]

	parts := strings.Split(rest, "/")
	if len(parts) > 1 && isVersionSegment(parts[0]) {
		parts = parts[1:]
	}
	path := strings.Join(parts, "/")
	if dot := strings.LastIndex(path, "."); dot > strings.LastIndex(path, "/") {
		path = path[:dot]
	}
	return path
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DisabledUploader is used when no image host credentials are configured.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, io.Reader, string, string) (*models.UploadedImage, error) {
	return nil, ErrUploadNotConfigured
}

func (DisabledUploader) Delete(_ context.Context, publicID string) error {
	if publicID != "" {
		log.Printf("Skipping image delete for %s: upload not configured", publicID)
	}
	return nil
}
