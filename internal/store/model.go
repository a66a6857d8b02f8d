package store

import (
	"time"

	"bazaar-be/internal/user"
)

// Store is a vendor's storefront, one-to-one with its owning user. The
// approval state itself lives on the user and is joined in on read.
type Store struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	LogoURL      *string           `json:"logo_url,omitempty"`
	DocumentURL  *string           `json:"document_url,omitempty"`
	VendorStatus user.VendorStatus `json:"vendor_status"`
	RejectReason *string           `json:"reject_reason,omitempty"`
	IsActive     bool              `json:"is_active"`
	OwnerEmail   string            `json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
}

type SubmitStoreInput struct {
	Name        string
	Description *string
	LogoURL     *string
	DocumentURL *string
}

type UpdateStoreInput struct {
	Name        *string
	Description *string
	LogoURL     *string
	DocumentURL *string
}
