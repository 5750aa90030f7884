package controllers

import (
	"net/http"

	"storefront/services"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// UploadImage godoc
// @Summary Upload image
// @Tags Admin - Upload
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} models.Response{data=models.UploadedImage}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/upload [post]
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required", err)
		return
	}

	image, err := ctrl.uploads.UploadImage(c.Request.Context(), file)
	if err != nil {
		respondError(c, "Failed to upload image", err)
		return
	}

	respondOK(c, http.StatusOK, "Image uploaded successfully", image)
}

// UploadImages godoc
// @Summary Upload images
// @Description Uploads up to 10 images; on failure the ones already stored are removed
// @Tags Admin - Upload
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Image files"
// @Success 200 {object} models.Response{data=[]models.UploadedImage}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/upload/multiple [post]
func (ctrl *UploadController) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "Invalid multipart form", err)
		return
	}

	images, err := ctrl.uploads.UploadImages(c.Request.Context(), form.File["images"])
	if err != nil {
		respondError(c, "Failed to upload images", err)
		return
	}

	respondOK(c, http.StatusOK, "Images uploaded successfully", images)
}
