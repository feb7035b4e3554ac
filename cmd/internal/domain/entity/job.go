package entity

type ContractType string

const (
	ContractCDI         ContractType = "cdi"
	ContractCDD         ContractType = "cdd"
	ContractInternship  ContractType = "stage"
	ContractFreelance   ContractType = "freelance"
	ContractConsultancy ContractType = "consultance"
)

type JobOffer struct {
	ID           int64        `gorm:"primaryKey"`
	EntrepriseID int64        `gorm:"not null;index"`
	Title        string       `gorm:"not null"`
	Description  string       `gorm:"not null"`
	Requirements string       `gorm:"not null;default:''"`
	Domains      string       `gorm:"not null"` // space separated, see JoinDomains
	ContractType ContractType `gorm:"not null"`
	Location     string       `gorm:"not null"`
	SalaryRange  string
	Deadline     int64 `gorm:"not null;index"`
	IsActive     bool  `gorm:"not null;index"`
	ViewsCount   int64 `gorm:"not null;default:0"`
	CreatedAt    int64 `gorm:"not null"`
	UpdatedAt    int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Entreprise Entreprise `gorm:"foreignKey:EntrepriseID;references:ID"`
}

func (JobOffer) TableName() string {
	return "job_offers"
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	ID          int64             `gorm:"primaryKey"`
	EngineerID  int64             `gorm:"not null;uniqueIndex:idx_application_engineer_job"` // References: profiles(id)
	JobID       int64             `gorm:"not null;uniqueIndex:idx_application_engineer_job;index"`
	Status      ApplicationStatus `gorm:"not null;default:pending"`
	CoverLetter string            `gorm:"not null;default:''"`
	CreatedAt   int64             `gorm:"not null"`
	UpdatedAt   int64             `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Engineer Profile  `gorm:"foreignKey:EngineerID;references:ID"`
	Job      JobOffer `gorm:"foreignKey:JobID;references:ID"`
}
