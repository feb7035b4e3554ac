package contract

type EntrepriseResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	NIF          string `json:"nif"`
	Sector       string `json:"sector"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Website      string `json:"website"`
	Status       string `json:"status"`
	StatusReason string `json:"status_reason,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// EntrepriseSummary is joined into job listings.
type EntrepriseSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	City   string `json:"city"`
}

type EntrepriseListResponse struct {
	Entreprises []*EntrepriseResponse `json:"entreprises"`
	Total       int64                 `json:"total"`
}

type UpdateEntrepriseRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=160"`
	Sector  *string `json:"sector" validate:"omitempty,min=1,max=80"`
	Phone   *string `json:"phone" validate:"omitempty,mrphone"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	City    *string `json:"city" validate:"omitempty,min=1,max=80"`
	Website *string `json:"website" validate:"omitempty,url,max=255"`
}

type StatusReasonRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}
