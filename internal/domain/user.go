package domain

// User roles.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is the account entity referenced by reviews. Owned by the user
// service; only the identity and role are relevant here (authorization on
// review deletion).
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
