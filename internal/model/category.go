package model

import "time"

// Category is a named bucket used to group items for vendor routing, with an
// ordered lowercase keyword list used for classification.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
}
