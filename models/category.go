package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SubCategory struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Image       string        `json:"image"`
	CategoryIDs []uuid.UUID   `json:"category_ids"`
	Categories  []CategoryRef `json:"categories,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
