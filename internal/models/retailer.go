package models

import "time"

type Retailer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	ShopName  string    `json:"shop_name"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RetailerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	ShopName string `json:"shop_name"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}
