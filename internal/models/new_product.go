package models

// NewProduct is the create payload. It is sent to the backend verbatim.
type NewProduct struct {
	Name string `json:"name"`
}
