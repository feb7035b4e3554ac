package entity

type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewConfirmed ReviewStatus = "confirmed"
	ReviewRejected  ReviewStatus = "rejected"
)

// Verification is the admin review of the documents an engineer uploaded.
// A new row is opened every time documents are (re)submitted.
type Verification struct {
	ID         int64        `gorm:"primaryKey"`
	ProfileID  int64        `gorm:"not null;index"`
	Status     ReviewStatus `gorm:"not null;default:pending"`
	ReviewedBy *int64
	ReviewedAt *int64
	Notes      string
	CreatedAt  int64 `gorm:"not null"`
}

// Reference is the parrain's confirmation of an applicant.
type Reference struct {
	ID          int64        `gorm:"primaryKey"`
	ProfileID   int64        `gorm:"not null;index"` // applicant
	SponsorID   int64        `gorm:"not null;index"` // parrain profile
	Status      ReviewStatus `gorm:"not null;default:pending"`
	Comment     string
	RespondedAt *int64
	CreatedAt   int64 `gorm:"not null"`

	// Relations
	Profile Profile `gorm:"foreignKey:ProfileID;references:ID"`
}

func (Reference) TableName() string {
	return "references_list"
}

type SponsorTier string

const (
	TierGold   SponsorTier = "gold"
	TierSilver SponsorTier = "silver"
	TierBronze SponsorTier = "bronze"
)

// Sponsor is a partner organisation displayed on the public site.
// Not to be confused with a parrain, see Reference.
type Sponsor struct {
	ID        int64       `gorm:"primaryKey"`
	Name      string      `gorm:"not null"`
	Website   string
	LogoKey   string
	Tier      SponsorTier `gorm:"not null;default:bronze"`
	IsActive  bool        `gorm:"not null"`
	CreatedAt int64       `gorm:"not null"`
	UpdatedAt int64       `gorm:"not null;autoUpdateTime:false"`
}
