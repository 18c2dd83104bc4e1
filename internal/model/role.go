package model

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	}

	return false
}

// Capabilities is the only place role strings turn into permissions
type Capabilities struct {
	CanManageUsers  bool `json:"canManageUsers"`
	CanPromoteOwner bool `json:"canPromoteOwner"`
}

func (r Role) Capabilities() Capabilities {
	switch r {
	case RoleOwner:
		return Capabilities{CanManageUsers: true, CanPromoteOwner: true}
	case RoleAdmin:
		return Capabilities{CanManageUsers: true}
	default:
		return Capabilities{}
	}
}
