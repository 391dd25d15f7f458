package items

import "time"

// Item is a catalog entry. Price is in minor currency units; Stock is never
// negative (enforced by the atomic decrement and a DB check constraint).
type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Stock      int       `json:"stock"`
	ImageURL   string    `json:"image_url,omitempty"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewItem is the payload for create and update requests.
type NewItem struct {
	Name       string `json:"name" validate:"required,min=1"`
	Price      int64  `json:"price" validate:"required,min=1"`
	Stock      int    `json:"stock" validate:"min=0"`
	ImageURL   string `json:"image_url"`
	CategoryID string `json:"category_id" validate:"required"`
}

// Filter narrows ListItems. Zero values mean no filtering.
type Filter struct {
	CategoryID string
	Search     string
}
