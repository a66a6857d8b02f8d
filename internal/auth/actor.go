package auth

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleVendor Role = "VENDOR"
	RoleUser   Role = "USER"
)

// Actor is the authenticated caller every mutating operation receives.
// Credentials are verified by the middleware; services only authorize.
type Actor struct {
	UserID  string
	Email   string
	Role    Role
	StoreID *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsVendor() bool {
	return a.Role == RoleVendor
}
