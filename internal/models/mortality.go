package models

import "time"

type MortalityRecord struct {
	ID             int       `json:"id"`
	Date           time.Time `json:"date"`
	BatchReference string    `json:"batch_reference"`
	BirdCount      int       `json:"bird_count"`
	Cause          string    `json:"cause"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MortalityRequest struct {
	Date           string `json:"date"`
	BatchReference string `json:"batch_reference"`
	BirdCount      int    `json:"bird_count"`
	Cause          string `json:"cause"`
	Notes          string `json:"notes"`
}
