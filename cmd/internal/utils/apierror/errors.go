package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"error"`
	Reason  string `json:"code,omitempty"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Message string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
	Status  int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError    = NewSimple(400, "Corps de requête invalide")
	InvalidMediaTypeError = NewSimple(415, "Type de contenu non supporté")
	FormJSONRequiredError = NewSimple(400, "Le champ 'json_payload' est requis")
	InternalServerError   = NewSimple(500, "Erreur interne du serveur")
	NotFoundError         = NewSimple(404, "Ressource introuvable")
	UnauthorizedError     = NewSimple(401, "Authentification requise")
	InvalidAuthTokenError = NewSimple(401, "Jeton d'authentification invalide")
	MissingAccessError    = NewSimple(403, "Accès refusé")
	WrongRoleError        = NewReason(403, "WRONG_ROLE", "Ce compte n'a pas accès à cette ressource")
	NotOwnerError         = NewReason(403, "NOT_OWNER", "Cette ressource n'appartient pas à votre compte")
	InvalidTransition     = NewReason(409, "INVALID_TRANSITION", "Ce changement de statut n'est pas autorisé")
	RollbackIncomplete    = NewReason(500, "ROLLBACK_INCOMPLETE", "L'opération a échoué et certaines ressources n'ont pas pu être nettoyées")

	/*
	 * Subscriptions & job offers
	 */
	EntrepriseNotValidatedError = NewReason(403, "ENTREPRISE_NOT_VALIDATED", "Votre entreprise doit être validée avant de souscrire un abonnement")
	PendingRequestExistsError   = NewReason(409, "PENDING_REQUEST_EXISTS", "Une demande déjà en attente de validation existe pour cette entreprise")
	UnknownPlanError            = NewReason(400, "UNKNOWN_PLAN", "Plan d'abonnement inconnu")
	InvalidDateRangeError       = NewReason(400, "INVALID_DATE_RANGE", "La date de début doit précéder la date de fin")
	NoActiveSubscriptionError   = NewReason(403, "NO_ACTIVE_SUBSCRIPTION", "Aucun abonnement actif")
	QuotaExceededError          = NewReason(409, "QUOTA_EXCEEDED", "Quota d'offres atteint")
	DeadlineInPastError         = NewReason(400, "DEADLINE_IN_PAST", "La date limite doit être dans le futur")
	JobClosedError              = NewReason(409, "JOB_CLOSED", "Cette offre n'accepte plus de candidatures")
	AlreadyAppliedError         = NewReason(409, "ALREADY_APPLIED", "Vous avez déjà postulé à cette offre")
	ProfileNotValidatedError    = NewReason(403, "PROFILE_NOT_VALIDATED", "Votre profil doit être validé pour effectuer cette action")

	/*
	 * Registration
	 */
	NNIAlreadyExistsError    = NewReason(409, "NNI_TAKEN", "Ce NNI est déjà enregistré")
	NIFAlreadyExistsError    = NewReason(409, "NIF_TAKEN", "Ce NIF est déjà enregistré")
	EmailAlreadyExistsError  = NewReason(409, "EMAIL_TAKEN", "Cette adresse e-mail est déjà utilisée")
	InvalidParrainError      = NewReason(400, "INVALID_PARRAIN", "Le parrain doit être un ingénieur validé")
	MissingDocumentError     = NewReason(400, "MISSING_DOCUMENT", "Document manquant")
	MissingFileNameError     = NewSimple(400, "Le fichier doit avoir un nom")
	NotResubmittableError    = NewReason(409, "NOT_RESUBMITTABLE", "Seul un dossier rejeté peut être soumis à nouveau")
	UnknownDocumentKindError = NewReason(400, "UNKNOWN_DOCUMENT", "Type de document inconnu")

	/*
	 * Used for authentications
	 */
	UserAlreadyConfirmedError   = NewSimple(400, "Le compte est déjà confirmé")
	IDPInvalidPasswordError     = NewSimple(400, "Le mot de passe ne respecte pas les exigences")
	IDPExistingEmailError       = NewReason(409, "EMAIL_TAKEN", "Cette adresse e-mail est déjà utilisée")
	IDPUserNotFoundError        = NewSimple(404, "Utilisateur introuvable")
	IDPUserNotConfirmedError    = NewSimple(400, "Le compte n'est pas encore confirmé")
	IDPCredentialsMismatchError = NewSimple(400, "Identifiants incorrects")
	IDPConfirmCodeMismatchError = NewSimple(400, "Code de confirmation incorrect")
	IDPConfirmCodeExpiredError  = NewSimple(400, "Le code de confirmation a expiré")
	IDPInvalidParameterError    = NewSimple(400, "Paramètres invalides, le compte est probablement déjà vérifié")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		s := NewStructured(http.StatusBadRequest)
		s.Add("body", "Valeur invalide")
		return s
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "Ce champ est requis")
		case "min":
			problems[field] = append(problems[field], "Valeur trop courte, min : "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Valeur trop longue, max : "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Valeur attendue parmi : "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Doit contenir au moins une majuscule")
		case "haslower":
			problems[field] = append(problems[field], "Doit contenir au moins une minuscule")
		case "hasdigit":
			problems[field] = append(problems[field], "Doit contenir au moins un chiffre")
		case "hasspecial":
			problems[field] = append(problems[field], "Doit contenir au moins un caractère spécial")
		case "email":
			problems[field] = append(problems[field], "Adresse e-mail invalide")
		case "nni":
			problems[field] = append(problems[field], "Le NNI doit contenir 10 chiffres")
		case "mrphone":
			problems[field] = append(problems[field], "Numéro de téléphone invalide")
		case "domain":
			problems[field] = append(problems[field], "Domaine inconnu")
		case "isodate":
			problems[field] = append(problems[field], "Date attendue au format AAAA-MM-JJ")
		case "nodupes":
			problems[field] = append(problems[field], "Les valeurs doivent être uniques")

		default:
			problems[field] = append(problems[field], "Valeur invalide")
		}
	}

	return &StructuredError{
		Message: "Données invalides",
		Errors:  problems,
		Status:  http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

// NewReason builds an error that also carries a stable machine-readable code.
func NewReason(status int, reason, msg string) *APIError {
	return &APIError{Status: status, Reason: reason, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Message: "Données invalides",
		Errors:  make(map[string][]string),
		Status:  code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Le paramètre '%s' a un type invalide, attendu : %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Le paramètre '%s' est requis", name)
}

func NewPermissionError(perm int64) *APIError {
	return NewSimple(http.StatusForbidden, "Permission manquante : %d", perm)
}

func NewForbiddenError(msg string) *APIError {
	return NewSimple(http.StatusForbidden, msg)
}

func NewFileTooLargeError(maxBytes int64) *APIError {
	return NewSimple(http.StatusRequestEntityTooLarge, "Fichier trop volumineux, taille max : %d Mo", maxBytes/(1024*1024))
}

func NewInvalidFileExtError(ext string) *APIError {
	return NewSimple(http.StatusBadRequest, "Extension de fichier non autorisée : '%s'", ext)
}

func NewMissingDocumentError(kind string) *APIError {
	return NewReason(http.StatusBadRequest, MissingDocumentError.Reason, "Document manquant : "+kind)
}

// NewUpstreamError wraps a provider failure with the provider's message appended.
func NewUpstreamError(provider string, err error) *APIError {
	return NewReason(http.StatusBadGateway, "UPSTREAM_ERROR", fmt.Sprintf("Erreur du service %s : %v", provider, err))
}
