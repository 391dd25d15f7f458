package categories

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory is the payload for create and update requests.
type NewCategory struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
}
