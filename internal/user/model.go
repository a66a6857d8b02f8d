package user

import (
	"time"

	"bazaar-be/internal/auth"
)

// VendorStatus tracks the approval pipeline for a store-owning user.
type VendorStatus string

const (
	VendorNormal   VendorStatus = "NORMAL"
	VendorPending  VendorStatus = "PENDING"
	VendorApproved VendorStatus = "APPROVED"
	VendorRejected VendorStatus = "REJECTED"
)

type User struct {
	ID           string
	Email        string
	Password     string
	Role         auth.Role
	VendorStatus VendorStatus
	StoreID      *string
	CreatedAt    time.Time
}
