package models

// Property is the real-estate record managed by the API.
type Property struct {
	ID          int     `json:"id"`
	Address     string  `json:"address"`
	Price       float64 `json:"price"`
	Size        float64 `json:"size"`
	Description string  `json:"description"`
}
