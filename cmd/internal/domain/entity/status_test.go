package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Profile(t *testing.T) {
	tests := []struct {
		from, to ProfileStatus
		want     bool
	}{
		{ProfileStatusPendingDocs, ProfileStatusPendingReference, true},
		{ProfileStatusPendingDocs, ProfileStatusValidated, true},
		{ProfileStatusPendingDocs, ProfileStatusRejected, true},
		{ProfileStatusPendingReference, ProfileStatusValidated, true},
		{ProfileStatusPendingReference, ProfileStatusPendingDocs, false},
		{ProfileStatusValidated, ProfileStatusPendingDocs, false},
		{ProfileStatusValidated, ProfileStatusRejected, true},
		{ProfileStatusRejected, ProfileStatusPendingDocs, true},
		{ProfileStatusRejected, ProfileStatusValidated, false},
		{ProfileStatusPendingDocs, ProfileStatusPendingDocs, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_Entreprise(t *testing.T) {
	assert.True(t, CanTransition(EntrepriseStatusPending, EntrepriseStatusValid))
	assert.True(t, CanTransition(EntrepriseStatusPending, EntrepriseStatusSuspended))
	assert.True(t, CanTransition(EntrepriseStatusSuspended, EntrepriseStatusValid))
	assert.False(t, CanTransition(EntrepriseStatusValid, EntrepriseStatusPending))
	assert.False(t, CanTransition(EntrepriseStatusValid, EntrepriseStatusValid))
}

func TestCanTransition_PaymentAndReview(t *testing.T) {
	assert.True(t, CanTransition(PaymentPending, PaymentVerified))
	assert.True(t, CanTransition(PaymentVerified, PaymentVerified))
	assert.False(t, CanTransition(PaymentRejected, PaymentVerified))
	assert.False(t, CanTransition(PaymentVerified, PaymentRejected))

	assert.True(t, CanTransition(ReviewPending, ReviewConfirmed))
	assert.False(t, CanTransition(ReviewConfirmed, ReviewRejected))

	assert.True(t, CanTransition(ApplicationPending, ApplicationAccepted))
	assert.False(t, CanTransition(ApplicationRejected, ApplicationAccepted))
}

func TestDeriveProfileStatus(t *testing.T) {
	assert.Equal(t, ProfileStatusPendingDocs, DeriveProfileStatus(ReviewPending, ReviewPending))
	assert.Equal(t, ProfileStatusPendingDocs, DeriveProfileStatus(ReviewPending, ReviewConfirmed))
	assert.Equal(t, ProfileStatusPendingReference, DeriveProfileStatus(ReviewConfirmed, ReviewPending))
	assert.Equal(t, ProfileStatusValidated, DeriveProfileStatus(ReviewConfirmed, ReviewConfirmed))
	assert.Equal(t, ProfileStatusRejected, DeriveProfileStatus(ReviewRejected, ReviewConfirmed))
	assert.Equal(t, ProfileStatusRejected, DeriveProfileStatus(ReviewConfirmed, ReviewRejected))
}

func TestJoinDomains(t *testing.T) {
	assert.Equal(t, "civil informatique", JoinDomains([]string{" Civil", "informatique", "civil", ""}))
	assert.Equal(t, []string{"civil", "informatique"}, SplitDomains("civil informatique"))
	assert.Equal(t, []string{}, SplitDomains(""))
}

func TestPermission_HasEffective(t *testing.T) {
	p := PermissionVerifyEngineers.Add(PermissionManageSponsors)
	assert.True(t, p.HasEffective(PermissionVerifyEngineers))
	assert.False(t, p.HasEffective(PermissionManageSubscriptions))
	assert.True(t, PermissionAdministrator.HasEffective(PermissionManageSubscriptions))
	assert.False(t, p.Remove(PermissionManageSponsors).Has(PermissionManageSponsors))
}
