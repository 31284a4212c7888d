package models

import "encoding/json"

// LabTest is a single catalog product.
type LabTest struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Price      json.Number `json:"price"`
	OfferPrice json.Number `json:"offer_price"`
	Category   *Category   `json:"category,omitempty"`
	IsActive   bool        `json:"is_active,omitempty"`
}

// LabPackage aggregates a set of lab tests under one price.
type LabPackage struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Price      json.Number `json:"price"`
	OfferPrice json.Number `json:"offer_price"`
	TestIDs    []int64     `json:"test_ids,omitempty"`
	Category   *Category   `json:"category,omitempty"`
	IsActive   bool        `json:"is_active,omitempty"`
}

// Category groups catalog products for the content management pages.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Notification is a delivered message record; dispatch itself lives in the
// backend.
type Notification struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Channel   string `json:"channel,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
