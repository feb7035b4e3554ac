package contract

type EmailStatus string

const (
	EmailStatusAvailable EmailStatus = "AVAILABLE"
	EmailStatusExists    EmailStatus = "TAKEN"
	EmailStatusVerifying EmailStatus = "VERIFYING"
)

// UserLoginRequest accepts either the account e-mail or its phone number
// as identifier.
type UserLoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=8"`
}

type ResendConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserStatusRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int32  `json:"expires_in"`
	Role        string `json:"role"`
}

type MeResponse struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	Perms         int64  `json:"permissions"`
	EmailVerified bool   `json:"email_verified"`
	ProfileID     *int64 `json:"profile_id,omitempty"`
	EntrepriseID  *int64 `json:"entreprise_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}
