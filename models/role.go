package models

// Role hierarchy: admin > worker > user. The ordering lives on the type so
// permission checks compare ranks instead of consulting a lookup table.
type Role string

const (
	RoleUser   Role = "user"
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleWorker:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r sits at or above min in the hierarchy.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}
