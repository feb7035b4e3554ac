package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils/apierror"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// subscribe requests 'plan' and has an admin activate it right away.
func (h *harness) subscribe(t *testing.T, actor *entity.User, plan string) *contract.SubscriptionResponse {
	t.Helper()
	req, apierr := h.subs.CreateSubscriptionRequest(actor, &contract.SubscriptionRequest{Plan: plan})
	require.Nil(t, apierr)

	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)
	sub, apierr := h.subs.ActivateSubscription(admin, req.ID, &contract.ActivateSubscriptionRequest{})
	require.Nil(t, apierr)
	return sub
}

func TestSubscriptionService_RequestNeedsValidEntreprise(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusPending)

	_, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	assert.Equal(t, apierror.EntrepriseNotValidatedError, apierr)
}

func TestSubscriptionService_SinglePendingRequest(t *testing.T) {
	h := newHarness(t)
	user, ent := h.seedEntreprise(t, entity.EntrepriseStatusValid)

	first, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "business"})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.PaymentPending), first.PaymentStatus)
	assert.False(t, first.IsActive)
	assert.NotEmpty(t, first.PaymentReference)

	_, apierr = h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	assert.Equal(t, apierror.PendingRequestExistsError, apierr)

	payment, err := h.payments.FindBySubscription(first.ID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, int64(12000), payment.Amount)
	assert.Equal(t, ent.ID, payment.PayerID)
}

func TestSubscriptionService_UnknownPlanRejectedByValidation(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)

	_, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "gold"})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestSubscriptionService_ActivationFlowAndStatus(t *testing.T) {
	h := newHarness(t)
	user, ent := h.seedEntreprise(t, entity.EntrepriseStatusValid)

	status, apierr := h.subs.GetStatus(user)
	require.Nil(t, apierr)
	assert.False(t, status.CanPublish)
	assert.Equal(t, "NO_ACTIVE_SUBSCRIPTION", status.Reason)
	require.NotNil(t, status.RemainingQuota)
	assert.Zero(t, *status.RemainingQuota)

	sub := h.subscribe(t, user, "starter")
	assert.True(t, sub.IsActive)
	assert.Equal(t, string(entity.PaymentVerified), sub.PaymentStatus)
	require.NotNil(t, sub.VerifiedBy)

	payment, err := h.payments.FindBySubscription(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentVerified, payment.Status)

	status, apierr = h.subs.GetStatus(user)
	require.Nil(t, apierr)
	assert.True(t, status.CanPublish)
	require.NotNil(t, status.RemainingQuota)
	assert.Equal(t, 5, *status.RemainingQuota)
	assert.Equal(t, 30, status.DaysRemaining)
	assert.Nil(t, status.Pending)

	// Half a day later the remaining days round up
	h.clock += day / 2
	days, apierr := h.subs.GetDaysRemaining(ent.ID)
	require.Nil(t, apierr)
	assert.Equal(t, 30, days)

	h.clock += 30 * day
	active, apierr := h.subs.GetActiveSubscription(ent.ID)
	require.Nil(t, apierr)
	assert.Nil(t, active)

	days, apierr = h.subs.GetDaysRemaining(ent.ID)
	require.Nil(t, apierr)
	assert.Zero(t, days)
}

func TestSubscriptionService_PremiumIsUnlimited(t *testing.T) {
	h := newHarness(t)
	user, ent := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	h.subscribe(t, user, "premium")

	quota, apierr := h.subs.GetRemainingQuota(ent.ID)
	require.Nil(t, apierr)
	assert.True(t, quota.Unlimited)

	status, apierr := h.subs.GetStatus(user)
	require.Nil(t, apierr)
	assert.Nil(t, status.RemainingQuota)
	assert.Equal(t, 365, status.DaysRemaining)
}

func TestSubscriptionService_AdminDatesOverridePlan(t *testing.T) {
	h := newHarness(t)
	user, ent := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)

	req, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	require.Nil(t, apierr)

	sub, apierr := h.subs.ActivateSubscription(admin, req.ID, &contract.ActivateSubscriptionRequest{
		StartsAt: strPtr("2026-03-01"),
		EndsAt:   strPtr("2026-06-01"),
		Notes:    "virement reçu",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "2026-03-01T00:00:00Z", sub.StartsAt)
	assert.Equal(t, "2026-06-01T00:00:00Z", sub.ExpiresAt)
	assert.Equal(t, "virement reçu", sub.AdminNotes)

	days, apierr := h.subs.GetDaysRemaining(ent.ID)
	require.Nil(t, apierr)
	assert.Equal(t, 83, days)
}

func TestSubscriptionService_OnlyEndDateGiven(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)

	req, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	require.Nil(t, apierr)

	_, apierr = h.subs.ActivateSubscription(admin, req.ID, &contract.ActivateSubscriptionRequest{
		EndsAt: strPtr("2026-03-01"),
	})
	assert.Equal(t, apierror.InvalidDateRangeError, apierr)
}

func TestSubscriptionService_InvalidDateRange(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)

	req, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	require.Nil(t, apierr)

	_, apierr = h.subs.ActivateSubscription(admin, req.ID, &contract.ActivateSubscriptionRequest{
		StartsAt: strPtr("2026-04-01"),
		EndsAt:   strPtr("2026-04-01"),
	})
	assert.Equal(t, apierror.InvalidDateRangeError, apierr)

	sub, err := h.subRepo.FindByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, sub.PaymentStatus)
}

func TestSubscriptionService_AdminChecks(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	req, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	require.Nil(t, apierr)

	_, apierr = h.subs.ActivateSubscription(user, req.ID, &contract.ActivateSubscriptionRequest{})
	assert.Equal(t, apierror.WrongRoleError, apierr)

	reviewer := h.seedAdmin(t, entity.PermissionVerifyEngineers)
	_, apierr = h.subs.ActivateSubscription(reviewer, req.ID, &contract.ActivateSubscriptionRequest{})
	require.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())

	root := h.seedAdmin(t, entity.PermissionAdministrator)
	_, apierr = h.subs.ActivateSubscription(root, 9999, &contract.ActivateSubscriptionRequest{})
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestSubscriptionService_RejectedCannotBeActivated(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)

	req, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	require.Nil(t, apierr)

	rejected, apierr := h.subs.RejectSubscription(admin, req.ID, &contract.AdminNotesRequest{Notes: "reçu illisible"})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.PaymentRejected), rejected.PaymentStatus)

	payment, err := h.payments.FindBySubscription(req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRejected, payment.Status)

	_, apierr = h.subs.ActivateSubscription(admin, req.ID, &contract.ActivateSubscriptionRequest{})
	assert.Equal(t, apierror.InvalidTransition, apierr)

	_, apierr = h.subs.RejectSubscription(admin, req.ID, &contract.AdminNotesRequest{})
	assert.Equal(t, apierror.InvalidTransition, apierr)

	// The rejection frees the entreprise to ask again
	_, apierr = h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
	assert.Nil(t, apierr)
}

func TestSubscriptionService_RenewalKeepsSingleActive(t *testing.T) {
	h := newHarness(t)
	user, ent := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	first := h.subscribe(t, user, "starter")

	h.clock += day
	second := h.subscribe(t, user, "business")
	assert.NotEqual(t, first.ID, second.ID)

	n, err := h.subRepo.CountActiveByEntreprise(ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	active, apierr := h.subs.GetActiveSubscription(ent.ID)
	require.Nil(t, apierr)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, entity.PlanBusiness, active.Plan)
}

func TestSubscriptionService_Deactivate(t *testing.T) {
	h := newHarness(t)
	user, ent := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)
	sub := h.subscribe(t, user, "starter")

	resp, apierr := h.subs.DeactivateSubscription(admin, sub.ID)
	require.Nil(t, apierr)
	assert.False(t, resp.IsActive)

	check, apierr := h.subs.CanPublishOffer(ent.ID)
	require.Nil(t, apierr)
	assert.False(t, check.Allowed)
	assert.Equal(t, apierror.NoActiveSubscriptionError, check.Reason)

	_, apierr = h.subs.DeactivateSubscription(admin, sub.ID)
	assert.Equal(t, apierror.InvalidTransition, apierr)
}

func TestSubscriptionService_ListSubscriptions(t *testing.T) {
	h := newHarness(t)
	admin := h.seedAdmin(t, entity.PermissionManageSubscriptions)
	for range 3 {
		user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
		_, apierr := h.subs.CreateSubscriptionRequest(user, &contract.SubscriptionRequest{Plan: "starter"})
		require.Nil(t, apierr)
	}

	list, apierr := h.subs.ListSubscriptions(admin, &contract.AdminListQuery{Status: "pending", Limit: 2})
	require.Nil(t, apierr)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Subscriptions, 2)
	assert.NotEmpty(t, list.Subscriptions[0].PaymentReference)
	assert.NotNil(t, list.Subscriptions[0].Entreprise)

	_, apierr = h.subs.ListSubscriptions(admin, &contract.AdminListQuery{Status: "paid"})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestSubscriptionService_ListPlans(t *testing.T) {
	h := newHarness(t)

	resp := h.subs.ListPlans()
	require.Len(t, resp, 3)
	assert.Equal(t, "starter", resp[0].Name)
	require.NotNil(t, resp[0].MaxOffers)
	assert.Equal(t, 5, *resp[0].MaxOffers)
	assert.Nil(t, resp[2].MaxOffers)
}
