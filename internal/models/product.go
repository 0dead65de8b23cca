package models

import "fmt"

// Product is the catalog entity as the backend serves it. Timestamps are kept
// as the raw strings the backend sent; the client never interprets them.
type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Line is the list rendering of a product.
func (p Product) Line() string {
	return fmt.Sprintf("ID: %d - %s", p.ID, p.Name)
}

type ProductMessage struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}
