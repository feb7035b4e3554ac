package contract

// MaxDocumentSizeBytes caps each registration document.
const MaxDocumentSizeBytes = 10 * 1024 * 1024

var ValidDocumentTypes = []string{"pdf", "png", "jpg", "jpeg"}

var ValidLogoTypes = []string{"png", "jpg", "jpeg", "webp", "svg"}

type EngineerRegistrationRequest struct {
	Email              string   `json:"email" validate:"required,email,max=254"`
	Password           string   `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
	NNI                string   `json:"nni" validate:"required,nni"`
	FullName           string   `json:"full_name" validate:"required,min=3,max=120"`
	Phone              string   `json:"phone" validate:"required,mrphone"`
	Address            string   `json:"address" validate:"max=255"`
	City               string   `json:"city" validate:"required,max=80"`
	DiplomaTitle       string   `json:"diploma_title" validate:"required,min=2,max=160"`
	DiplomaInstitution string   `json:"diploma_institution" validate:"required,min=2,max=160"`
	DiplomaYear        int      `json:"diploma_year" validate:"required,min=1960,max=2100"`
	Domains            []string `json:"domains" validate:"required,min=1,max=5,nodupes,dive,domain"`
	ExerciseMode       string   `json:"exercise_mode" validate:"required,oneof=salarie liberal fonctionnaire sans_emploi retraite"`
	ParrainID          *int64   `json:"parrain_id" validate:"omitempty,min=1"`
}

type EntrepriseRegistrationRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
	Name     string `json:"name" validate:"required,min=2,max=160"`
	NIF      string `json:"nif" validate:"required,min=5,max=20,numeric"`
	Sector   string `json:"sector" validate:"required,max=80"`
	Phone    string `json:"phone" validate:"required,mrphone"`
	Address  string `json:"address" validate:"max=255"`
	City     string `json:"city" validate:"required,max=80"`
	Website  string `json:"website" validate:"omitempty,url,max=255"`
}

type RegistrationResponse struct {
	UserID           int64  `json:"user_id"`
	ProfileID        *int64 `json:"profile_id,omitempty"`
	EntrepriseID     *int64 `json:"entreprise_id,omitempty"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference,omitempty"`
}
