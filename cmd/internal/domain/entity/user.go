package entity

type Role string

const (
	RoleEngineer   Role = "engineer"
	RoleEntreprise Role = "entreprise"
	RoleAdmin      Role = "admin"
)

// User is the account behind every authenticated caller. The identity
// itself lives in Cognito, SubUUID links both sides.
type User struct {
	ID            int64      `gorm:"primaryKey"`
	SubUUID       string     `gorm:"not null;uniqueIndex"`
	Email         string     `gorm:"not null;uniqueIndex"`
	Phone         string     `gorm:"not null;index"`
	Role          Role       `gorm:"not null;index"`
	Permissions   Permission `gorm:"not null;type:bigint;default:0"`
	EmailVerified bool       `gorm:"not null"`
	Active        bool       `gorm:"not null"`
	CreatedAt     int64      `gorm:"not null"`
	UpdatedAt     int64      `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
