package contract

type SponsorRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Website string `json:"website" validate:"omitempty,url,max=255"`
	Tier    string `json:"tier" validate:"required,oneof=gold silver bronze"`
}

type UpdateSponsorRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
	Tier     *string `json:"tier" validate:"omitempty,oneof=gold silver bronze"`
	IsActive *bool   `json:"is_active"`
}

type SponsorResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Website  string `json:"website"`
	LogoKey  string `json:"logo_key,omitempty"`
	Tier     string `json:"tier"`
	IsActive bool   `json:"is_active"`
}
