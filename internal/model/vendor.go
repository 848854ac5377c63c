package model

import "time"

// Vendor is an external supplier contact mapped to one category. Multiple
// vendors may share a category; only the first by store order is used when
// dispatching.
type Vendor struct {
	ID         int64     `json:"id"`
	Category   string    `json:"category"`
	VendorName string    `json:"vendor_name"`
	Phone      string    `json:"phone"`
	VendorType string    `json:"vendor_type"`
	CreatedAt  time.Time `json:"created_at"`
}
