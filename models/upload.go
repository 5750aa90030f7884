package models

type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
