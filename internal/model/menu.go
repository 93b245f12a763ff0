package model

// MenuItem represents a dish that can be ordered.
type MenuItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Restaurant is the catalogue served to the dashboard and used for order extraction.
type Restaurant struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Menu    []MenuItem `json:"menu"`
}
