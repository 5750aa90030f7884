package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFiles builds real file headers by parsing a multipart body.
func multipartFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"]
}

func TestUploadImage(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewUploadService(uploader, "storefront", 1024)

	image, err := svc.UploadImage(context.Background(), multipartFiles(t, "my photo.png")[0])
	require.NoError(t, err)
	assert.Equal(t, "storefront/my_photo", image.PublicID)

	var validationErr *models.ValidationError
	_, err = svc.UploadImage(context.Background(), multipartFiles(t, "notes.txt")[0])
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.UploadImage(context.Background(), nil)
	assert.ErrorAs(t, err, &validationErr)
}

func TestUploadImagesRollsBackOnFailure(t *testing.T) {
	uploader := &fakeUploader{failOn: "c"}
	svc := NewUploadService(uploader, "storefront", 1024)

	_, err := svc.UploadImages(context.Background(), multipartFiles(t, "a.jpg", "b.jpg", "c.jpg"))
	assert.ErrorIs(t, err, errUploadFailed)
	assert.Equal(t, []string{"storefront/a", "storefront/b"}, uploader.uploaded)
	assert.Equal(t, uploader.uploaded, uploader.deleted)
}

func TestUploadImagesValidatesBeforeUploading(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewUploadService(uploader, "storefront", 1024)
	var validationErr *models.ValidationError

	_, err := svc.UploadImages(context.Background(), multipartFiles(t, "a.jpg", "b.exe"))
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, uploader.uploaded)

	_, err = svc.UploadImages(context.Background(), nil)
	assert.ErrorAs(t, err, &validationErr)

	names := make([]string, MaxImagesPerUpload+1)
	for i := range names {
		names[i] = "img.jpg"
	}
	_, err = svc.UploadImages(context.Background(), multipartFiles(t, names...))
	assert.ErrorAs(t, err, &validationErr)
}

func TestUploadImages(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewUploadService(uploader, "storefront", 1024)

	images, err := svc.UploadImages(context.Background(), multipartFiles(t, "a.jpg", "b.webp"))
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img.example.com/storefront/b", images[1].URL)
	assert.Empty(t, uploader.deleted)
}
