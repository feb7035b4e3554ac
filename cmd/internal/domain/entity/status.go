package entity

import "slices"

// All status transitions of the platform live here. Services must call
// CanTransition before persisting a new status.

var profileTransitions = map[ProfileStatus][]ProfileStatus{
	ProfileStatusPendingDocs:      {ProfileStatusPendingReference, ProfileStatusValidated, ProfileStatusRejected},
	ProfileStatusPendingReference: {ProfileStatusValidated, ProfileStatusRejected},
	ProfileStatusValidated:        {ProfileStatusRejected},
	ProfileStatusRejected:         {ProfileStatusPendingDocs},
}

var entrepriseTransitions = map[EntrepriseStatus][]EntrepriseStatus{
	EntrepriseStatusPending:   {EntrepriseStatusValid, EntrepriseStatusSuspended},
	EntrepriseStatusValid:     {EntrepriseStatusSuspended},
	EntrepriseStatusSuspended: {EntrepriseStatusValid},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentVerified, PaymentRejected},
	// A verified subscription may be re-activated with new dates
	PaymentVerified: {PaymentVerified},
	PaymentRejected: {},
}

var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewPending:   {ReviewConfirmed, ReviewRejected},
	ReviewConfirmed: {},
	ReviewRejected:  {},
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:  {ApplicationAccepted, ApplicationRejected},
	ApplicationAccepted: {},
	ApplicationRejected: {},
}

type status interface {
	ProfileStatus | EntrepriseStatus | PaymentStatus | ReviewStatus | ApplicationStatus
}

// CanTransition reports whether moving from 'from' to 'to' is allowed.
// Staying on the same status is never a transition, except where the
// table lists it explicitly.
func CanTransition[S status](from, to S) bool {
	var allowed []S
	switch f := any(from).(type) {
	case ProfileStatus:
		allowed = any(profileTransitions[f]).([]S)
	case EntrepriseStatus:
		allowed = any(entrepriseTransitions[f]).([]S)
	case PaymentStatus:
		allowed = any(paymentTransitions[f]).([]S)
	case ReviewStatus:
		allowed = any(reviewTransitions[f]).([]S)
	case ApplicationStatus:
		allowed = any(applicationTransitions[f]).([]S)
	}
	return slices.Contains(allowed, to)
}

// DeriveProfileStatus computes where an engineer stands from the two
// independent approvals: the admin document review and the parrain
// reference.
func DeriveProfileStatus(docs, reference ReviewStatus) ProfileStatus {
	switch {
	case docs == ReviewRejected || reference == ReviewRejected:
		return ProfileStatusRejected
	case docs == ReviewConfirmed && reference == ReviewConfirmed:
		return ProfileStatusValidated
	case docs == ReviewConfirmed:
		return ProfileStatusPendingReference
	default:
		return ProfileStatusPendingDocs
	}
}
