package contract

type PlanResponse struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Price        int64  `json:"price"`
	MaxOffers    *int   `json:"max_offers"` // null means unlimited
	DurationDays int    `json:"duration_days"`
}

type SubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,oneof=starter business premium"`
}

type SubscriptionResponse struct {
	ID               int64              `json:"id"`
	EntrepriseID     int64              `json:"entreprise_id"`
	Plan             string             `json:"plan"`
	StartsAt         string             `json:"starts_at"`
	ExpiresAt        string             `json:"expires_at"`
	IsActive         bool               `json:"is_active"`
	PaymentStatus    string             `json:"payment_status"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	VerifiedBy       *int64             `json:"verified_by"`
	VerifiedAt       *string            `json:"verified_at"`
	AdminNotes       string             `json:"admin_notes,omitempty"`
	CreatedAt        string             `json:"created_at"`
	Entreprise       *EntrepriseSummary `json:"entreprise,omitempty"`
}

// SubscriptionStatusResponse is the entreprise dashboard summary.
type SubscriptionStatusResponse struct {
	Active         *SubscriptionResponse `json:"active"`
	Pending        *SubscriptionResponse `json:"pending"`
	RemainingQuota *int                  `json:"remaining_quota"` // null means unlimited
	DaysRemaining  int                   `json:"days_remaining"`
	CanPublish     bool                  `json:"can_publish"`
	Reason         string                `json:"reason,omitempty"`
}

type SubscriptionListResponse struct {
	Subscriptions []*SubscriptionResponse `json:"subscriptions"`
	Total         int64                   `json:"total"`
}

// ActivateSubscriptionRequest dates are optional, the plan duration from
// today is used when both are omitted.
type ActivateSubscriptionRequest struct {
	StartsAt *string `json:"starts_at" validate:"omitempty,isodate"`
	EndsAt   *string `json:"ends_at" validate:"omitempty,isodate"`
	Notes    string  `json:"notes" validate:"max=1000"`
}

type AdminNotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}
