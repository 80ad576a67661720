package domain

import (
	"time"
)

type Listing struct {
	ID        int64     `json:"id"`
	SellerID  int64     `json:"seller_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ListingStatusActive   = "active"
	ListingStatusArchived = "archived"
	ListingStatusRemoved  = "removed"
)
