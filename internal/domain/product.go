package domain

import "time"

// Product is a catalog entry. CategoryID must reference an existing category
// at creation and update time; the stores do not enforce this themselves.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CategoryID  string    `json:"category"`
	Price       float64   `json:"price"`
	Images      ImageList `json:"image"`
	Description string    `json:"description,omitempty"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// CategoryName is filled in on reads for storefront display. It is not a
	// stored column.
	CategoryName string `json:"categoryName,omitempty"`
}
