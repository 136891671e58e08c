// internal/model/product.go
package model

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Featured    bool    `json:"featured,omitempty"`
	Description string  `json:"description,omitempty"`
}
