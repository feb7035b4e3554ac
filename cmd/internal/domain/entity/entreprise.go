package entity

type EntrepriseStatus string

const (
	EntrepriseStatusPending   EntrepriseStatus = "en_attente"
	EntrepriseStatusValid     EntrepriseStatus = "valide"
	EntrepriseStatusSuspended EntrepriseStatus = "suspendu"
)

type Entreprise struct {
	ID      int64  `gorm:"primaryKey"`
	UserID  int64  `gorm:"not null;uniqueIndex"`
	Name    string `gorm:"not null;index"`
	NIF     string `gorm:"column:nif;not null;uniqueIndex"`
	Sector  string `gorm:"not null"`
	Email   string `gorm:"not null"`
	Phone   string `gorm:"not null"`
	Address string
	City    string
	Website string

	Status EntrepriseStatus `gorm:"not null;index;default:en_attente"`

	// StatusReason holds the admin note for the last suspension or
	// rejection. Rejected accounts are kept as "suspendu" with a reason.
	StatusReason string

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`
}

func (Entreprise) TableName() string {
	return "entreprises"
}
