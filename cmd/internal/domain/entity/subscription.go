package entity

type PlanName string

const (
	PlanStarter  PlanName = "starter"
	PlanBusiness PlanName = "business"
	PlanPremium  PlanName = "premium"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// Subscription is an entreprise's request for, and later grant of, a plan.
// At most one row per entreprise is active; activation deactivates the
// siblings in the same transaction.
type Subscription struct {
	ID            int64         `gorm:"primaryKey"`
	EntrepriseID  int64         `gorm:"not null;index"`
	Plan          PlanName      `gorm:"not null"`
	StartsAt      int64         `gorm:"not null"`
	ExpiresAt     int64         `gorm:"not null;index"`
	IsActive      bool          `gorm:"not null;index"`
	PaymentStatus PaymentStatus `gorm:"not null;index;default:pending"`
	VerifiedBy    *int64
	VerifiedAt    *int64
	AdminNotes    string
	CreatedAt     int64 `gorm:"not null"`
	UpdatedAt     int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Entreprise Entreprise `gorm:"foreignKey:EntrepriseID;references:ID"`
}

func (Subscription) TableName() string {
	return "entreprise_subscriptions"
}

// IsLive reports whether the row grants publishing rights at 'now'.
func (s *Subscription) IsLive(now int64) bool {
	return s.IsActive && s.PaymentStatus == PaymentVerified && s.ExpiresAt > now
}

type PayerKind string

const (
	PayerProfile    PayerKind = "profile"
	PayerEntreprise PayerKind = "entreprise"
)

type PaymentPurpose string

const (
	PurposeCotisation   PaymentPurpose = "cotisation"
	PurposeSubscription PaymentPurpose = "subscription"
)

type Payment struct {
	ID             int64          `gorm:"primaryKey"`
	Reference      int64          `gorm:"not null;uniqueIndex"`
	PayerKind      PayerKind      `gorm:"not null;index:idx_payment_payer"`
	PayerID        int64          `gorm:"not null;index:idx_payment_payer"`
	Purpose        PaymentPurpose `gorm:"not null"`
	SubscriptionID *int64         `gorm:"index"`
	Amount         int64          `gorm:"not null"` // MRU
	ReceiptKey     string
	Status         PaymentStatus `gorm:"not null;default:pending"`
	CreatedAt      int64         `gorm:"not null"`
	UpdatedAt      int64         `gorm:"not null;autoUpdateTime:false"`
}
