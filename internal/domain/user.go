package domain

import "time"

// Role enumerates the coarse-grained permission labels a user can carry.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleUser     Role = "user"
)

// Roles lists every assignable role.
var Roles = []Role{RoleAdmin, RoleManager, RoleOperator, RoleUser}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOperator, RoleUser:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid reports whether s is a known status.
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User is an account able to log in. PasswordHash never leaves the process.
type User struct {
	ID           string     `json:"id" bson:"_id"`
	Username     string     `json:"username" bson:"username"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password"`
	Role         Role       `json:"role" bson:"role"`
	Permissions  []string   `json:"permissions" bson:"permissions"`
	Status       UserStatus `json:"status" bson:"status"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`

	// Password holds a pending plaintext replacement until the next save hashes it.
	Password string `json:"-" bson:"-"`
}

// MaxPasswordBytes is the longest plaintext the password hash accepts.
const MaxPasswordBytes = 72

// PasswordChanged reports whether a new plaintext password is waiting to be hashed.
func (u *User) PasswordChanged() bool {
	return u.Password != ""
}
