package entity

import (
	"slices"
	"strings"
)

type ProfileStatus string

const (
	ProfileStatusPendingDocs      ProfileStatus = "pending_docs"
	ProfileStatusPendingReference ProfileStatus = "pending_reference"
	ProfileStatusValidated        ProfileStatus = "validated"
	ProfileStatusRejected         ProfileStatus = "rejected"
)

type ExerciseMode string

const (
	ExerciseEmployee   ExerciseMode = "salarie"
	ExerciseLiberal    ExerciseMode = "liberal"
	ExerciseCivilServ  ExerciseMode = "fonctionnaire"
	ExerciseUnemployed ExerciseMode = "sans_emploi"
	ExerciseRetired    ExerciseMode = "retraite"
)

// Domains is the closed set of engineering domains an engineer or a job
// offer can be tagged with.
var Domains = []string{
	"civil", "electrique", "mecanique", "informatique", "telecom",
	"hydraulique", "mines", "petrole", "chimie", "agronomie",
	"environnement", "architecture", "industriel", "energie",
}

// Profile is the engineer's membership record.
type Profile struct {
	ID                 int64  `gorm:"primaryKey"`
	UserID             int64  `gorm:"not null;uniqueIndex"`
	NNI                string `gorm:"column:nni;not null;uniqueIndex"`
	FullName           string `gorm:"not null;index"`
	Email              string `gorm:"not null"`
	Phone              string `gorm:"not null"`
	Address            string
	City               string
	DiplomaTitle       string `gorm:"not null"`
	DiplomaInstitution string `gorm:"not null"`
	DiplomaYear        int    `gorm:"not null"`
	Domains            string `gorm:"not null"` // space separated, see JoinDomains
	ExerciseMode       ExerciseMode
	Bio                string

	Status             ProfileStatus `gorm:"not null;index;default:pending_docs"`
	RejectionReason    string
	SubscriptionExpiry *int64
	ParrainID          *int64 `gorm:"index"` // References: profiles(id)

	// Object keys of the registration documents
	DiplomaKey    string `gorm:"not null"`
	NationalIDKey string `gorm:"not null"`
	ReceiptKey    string `gorm:"not null"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`
}

// DocumentKind names the three files uploaded at registration.
type DocumentKind string

const (
	DocumentDiploma    DocumentKind = "diploma"
	DocumentNationalID DocumentKind = "national_id"
	DocumentReceipt    DocumentKind = "payment_receipt"
)

var DocumentKinds = []DocumentKind{DocumentDiploma, DocumentNationalID, DocumentReceipt}

// DocumentKey returns the object key stored for the given kind,
// or false if the kind is unknown.
func (p *Profile) DocumentKey(kind DocumentKind) (string, bool) {
	switch kind {
	case DocumentDiploma:
		return p.DiplomaKey, true
	case DocumentNationalID:
		return p.NationalIDKey, true
	case DocumentReceipt:
		return p.ReceiptKey, true
	default:
		return "", false
	}
}

func (p *Profile) SetDocumentKey(kind DocumentKind, key string) {
	switch kind {
	case DocumentDiploma:
		p.DiplomaKey = key
	case DocumentNationalID:
		p.NationalIDKey = key
	case DocumentReceipt:
		p.ReceiptKey = key
	}
}

// JoinDomains normalizes and stores a domain list as a single column.
func JoinDomains(domains []string) string {
	clean := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && !slices.Contains(clean, d) {
			clean = append(clean, d)
		}
	}
	return strings.Join(clean, " ")
}

func SplitDomains(domains string) []string {
	if len(domains) == 0 {
		return []string{}
	}
	return strings.Split(domains, " ")
}

func IsKnownDomain(domain string) bool {
	return slices.Contains(Domains, domain)
}
