package models

import "time"

// Tag is a user-owned label that can be attached to any number of tasks.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"` // "#rrggbb"
	OwnerID   string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
