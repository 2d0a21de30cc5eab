package domain

// Operator Model
type Operator struct {
	ID       uint   `gorm:"primaryKey"`              // Primary key
	Username string `gorm:"unique;not null;size:64"` // Unique username
	Password string `gorm:"not null"`                // Hashed password
	Role     string `gorm:"default:moderator"`       // Role: moderator or admin
}

// Operator roles allowed to change directory verification
const (
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// CanModerate reports whether the role may verify directory organizations
func (o Operator) CanModerate() bool {
	return o.Role == RoleModerator || o.Role == RoleAdmin
}
