package contract

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type JobRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=160"`
	Description  string   `json:"description" validate:"required,min=10,max=10000"`
	Requirements string   `json:"requirements" validate:"max=5000"`
	Domains      []string `json:"domains" validate:"required,min=1,max=5,nodupes,dive,domain"`
	ContractType string   `json:"contract_type" validate:"required,oneof=cdi cdd stage freelance consultance"`
	Location     string   `json:"location" validate:"required,max=120"`
	SalaryRange  string   `json:"salary_range" validate:"max=80"`
	Deadline     string   `json:"deadline" validate:"required,isodate"`
}

type UpdateJobRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=160"`
	Description  *string  `json:"description" validate:"omitempty,min=10,max=10000"`
	Requirements *string  `json:"requirements" validate:"omitempty,max=5000"`
	Domains      []string `json:"domains" validate:"omitempty,min=1,max=5,nodupes,dive,domain"`
	ContractType *string  `json:"contract_type" validate:"omitempty,oneof=cdi cdd stage freelance consultance"`
	Location     *string  `json:"location" validate:"omitempty,min=1,max=120"`
	SalaryRange  *string  `json:"salary_range" validate:"omitempty,max=80"`
	Deadline     *string  `json:"deadline" validate:"omitempty,isodate"`
}

type JobQuery struct {
	Domains []string `query:"domain" validate:"omitempty,max=14,dive,domain"`
	Search  string   `query:"q" validate:"max=80"`
	Limit   int      `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset  int      `query:"offset" validate:"omitempty,min=0"`
}

type JobResponse struct {
	ID           int64              `json:"id"`
	EntrepriseID int64              `json:"entreprise_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Requirements string             `json:"requirements"`
	Domains      []string           `json:"domains"`
	ContractType string             `json:"contract_type"`
	Location     string             `json:"location"`
	SalaryRange  string             `json:"salary_range"`
	Deadline     string             `json:"deadline"`
	IsActive     bool               `json:"is_active"`
	ViewsCount   int64              `json:"views_count"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
	Entreprise   *EntrepriseSummary `json:"entreprise,omitempty"`
}

type JobListResponse struct {
	Jobs   []*JobResponse `json:"jobs"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type ApplicationRequest struct {
	CoverLetter string `json:"cover_letter" validate:"max=5000"`
}

type ApplicationDecisionRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type ApplicationResponse struct {
	ID          int64                  `json:"id"`
	JobID       int64                  `json:"job_id"`
	EngineerID  int64                  `json:"engineer_id"`
	Status      string                 `json:"status"`
	CoverLetter string                 `json:"cover_letter"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
	Job         *JobResponse           `json:"job,omitempty"`
	Engineer    *PublicProfileResponse `json:"engineer,omitempty"`
}
