package contract

// ProfileResponse is the full engineer record, shown to its owner and to
// admins.
type ProfileResponse struct {
	ID                 int64    `json:"id"`
	UserID             int64    `json:"user_id"`
	NNI                string   `json:"nni"`
	FullName           string   `json:"full_name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Address            string   `json:"address"`
	City               string   `json:"city"`
	DiplomaTitle       string   `json:"diploma_title"`
	DiplomaInstitution string   `json:"diploma_institution"`
	DiplomaYear        int      `json:"diploma_year"`
	Domains            []string `json:"domains"`
	ExerciseMode       string   `json:"exercise_mode"`
	Bio                string   `json:"bio"`
	Status             string   `json:"status"`
	RejectionReason    string   `json:"rejection_reason,omitempty"`
	SubscriptionExpiry *string  `json:"subscription_expiry"`
	ParrainID          *int64   `json:"parrain_id"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// PublicProfileResponse is what the directory exposes, no identity
// document nor contact data.
type PublicProfileResponse struct {
	ID                 int64    `json:"id"`
	FullName           string   `json:"full_name"`
	City               string   `json:"city"`
	DiplomaTitle       string   `json:"diploma_title"`
	DiplomaInstitution string   `json:"diploma_institution"`
	DiplomaYear        int      `json:"diploma_year"`
	Domains            []string `json:"domains"`
	ExerciseMode       string   `json:"exercise_mode"`
	Bio                string   `json:"bio"`
}

type DirectoryResponse struct {
	Engineers []*PublicProfileResponse `json:"engineers"`
	Total     int64                    `json:"total"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

type DirectoryQuery struct {
	Query  string `query:"q" validate:"max=80"`
	Domain string `query:"domain" validate:"omitempty,domain"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type UpdateProfileRequest struct {
	Phone        *string  `json:"phone" validate:"omitempty,mrphone"`
	Address      *string  `json:"address" validate:"omitempty,max=255"`
	City         *string  `json:"city" validate:"omitempty,min=1,max=80"`
	Bio          *string  `json:"bio" validate:"omitempty,max=2000"`
	ExerciseMode *string  `json:"exercise_mode" validate:"omitempty,oneof=salarie liberal fonctionnaire sans_emploi retraite"`
	Domains      []string `json:"domains" validate:"omitempty,min=1,max=5,nodupes,dive,domain"`
}

// EngineerDetailResponse is the admin view of an applicant with the state
// of both approvals.
type EngineerDetailResponse struct {
	Profile      *ProfileResponse      `json:"profile"`
	Verification *VerificationResponse `json:"verification"`
	Reference    *ReferenceResponse    `json:"reference"`
	Payment      *PaymentResponse      `json:"payment"`
}

type EngineerListResponse struct {
	Engineers []*ProfileResponse `json:"engineers"`
	Total     int64              `json:"total"`
}

type VerificationResponse struct {
	ID         int64   `json:"id"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
	ReviewedBy *int64  `json:"reviewed_by"`
	ReviewedAt *string `json:"reviewed_at"`
	CreatedAt  string  `json:"created_at"`
}

type ReferenceResponse struct {
	ID          int64                  `json:"id"`
	ProfileID   int64                  `json:"profile_id"`
	SponsorID   int64                  `json:"sponsor_id"`
	Status      string                 `json:"status"`
	Comment     string                 `json:"comment"`
	RespondedAt *string                `json:"responded_at"`
	CreatedAt   string                 `json:"created_at"`
	Applicant   *PublicProfileResponse `json:"applicant,omitempty"`
}

type PaymentResponse struct {
	Reference string `json:"reference"`
	Purpose   string `json:"purpose"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type ReviewRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes" validate:"max=1000"`
}

type RespondReferenceRequest struct {
	Confirm *bool  `json:"confirm" validate:"required"`
	Comment string `json:"comment" validate:"max=1000"`
}

type AdminListQuery struct {
	Status string `query:"status" validate:"max=30"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}
