package authz

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

func IsElevated(role string) bool {
	return role == RoleAdmin
}
