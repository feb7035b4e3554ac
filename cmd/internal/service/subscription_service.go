package service

import (
	"errors"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/plans"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/domain/sqlite/repository"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"omigec/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type SubscriptionRepository interface {
	FindByID(id int64) (*entity.Subscription, error)
	FindActive(entrepriseID, now int64) (*entity.Subscription, error)
	FindPending(entrepriseID int64) (*entity.Subscription, error)
	CreateRequest(sub *entity.Subscription, payment *entity.Payment) error
	Activate(sub *entity.Subscription) error
	Reject(sub *entity.Subscription) error
	Save(sub *entity.Subscription) error
	FindByPaymentStatus(status entity.PaymentStatus, limit, offset int) ([]*entity.Subscription, int64, error)
}

// Quota is what is left of a plan's active offer allowance.
type Quota struct {
	Remaining int
	Unlimited bool
}

// PublishCheck is the answer to "may this entreprise publish one more
// offer". Reason is set when Allowed is false.
type PublishCheck struct {
	Allowed bool
	Reason  *apierror.APIError
	Plan    *plans.Plan
}

type SubscriptionService struct {
	SubRepo        SubscriptionRepository
	EntrepriseRepo EntrepriseRepository
	JobRepo        JobRepository
	PaymentRepo    PaymentRepository
	Plans          *plans.Catalog
	AdminPolicy    *policy.AdminPolicy
	Validate       *validator.Validate

	now func() int64
}

func NewSubscriptionService(
	subRepo SubscriptionRepository,
	entrepriseRepo EntrepriseRepository,
	jobRepo JobRepository,
	paymentRepo PaymentRepository,
	catalog *plans.Catalog,
	adminPolicy *policy.AdminPolicy,
	validate *validator.Validate,
) *SubscriptionService {
	return &SubscriptionService{
		SubRepo:        subRepo,
		EntrepriseRepo: entrepriseRepo,
		JobRepo:        jobRepo,
		PaymentRepo:    paymentRepo,
		Plans:          catalog,
		AdminPolicy:    adminPolicy,
		Validate:       validate,
		now:            utils.NowUTC,
	}
}

func (s *SubscriptionService) ListPlans() []*contract.PlanResponse {
	all := s.Plans.All()
	resp := make([]*contract.PlanResponse, len(all))
	for i, p := range all {
		resp[i] = toPlanResponse(p)
	}
	return resp
}

// CreateSubscriptionRequest records the entreprise's wish for 'req.Plan'.
// Nothing is granted until an admin verifies the payment.
func (s *SubscriptionService) CreateSubscriptionRequest(actor *entity.User, req *contract.SubscriptionRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	ent, apierr := entrepriseOf(s.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}
	return s.createRequest(ent, entity.PlanName(req.Plan))
}

func (s *SubscriptionService) createRequest(ent *entity.Entreprise, planName entity.PlanName) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	if ent.Status != entity.EntrepriseStatusValid {
		return nil, apierror.EntrepriseNotValidatedError
	}

	plan, ok := s.Plans.Get(planName)
	if !ok {
		return nil, apierror.UnknownPlanError
	}

	pending, err := s.SubRepo.FindPending(ent.ID)
	if err != nil {
		log.Errorf("failed to fetch pending subscription of entreprise %d: %v", ent.ID, err)
		return nil, apierror.InternalServerError
	}

	if pending != nil {
		return nil, apierror.PendingRequestExistsError
	}

	now := s.now()
	sub := &entity.Subscription{
		EntrepriseID:  ent.ID,
		Plan:          plan.Name,
		StartsAt:      now,
		ExpiresAt:     now + plan.Duration().Milliseconds(),
		IsActive:      false,
		PaymentStatus: entity.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	payment := &entity.Payment{
		Reference: uid.Generate(),
		PayerKind: entity.PayerEntreprise,
		PayerID:   ent.ID,
		Purpose:   entity.PurposeSubscription,
		Amount:    plan.Price,
		Status:    entity.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.SubRepo.CreateRequest(sub, payment)
	if errors.Is(err, repository.ErrPendingRequestExists) {
		return nil, apierror.PendingRequestExistsError
	}

	if err != nil {
		log.Errorf("failed to create subscription request for entreprise %d: %v", ent.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := toSubscriptionResponse(sub)
	resp.PaymentReference = formatReference(payment.Reference)
	return resp, nil
}

// GetActiveSubscription returns the live subscription of the entreprise,
// or nil.
func (s *SubscriptionService) GetActiveSubscription(entrepriseID int64) (*entity.Subscription, apierror.ErrorResponse) {
	sub, err := s.SubRepo.FindActive(entrepriseID, s.now())
	if err != nil {
		log.Errorf("failed to fetch active subscription of entreprise %d: %v", entrepriseID, err)
		return nil, apierror.InternalServerError
	}
	return sub, nil
}

func (s *SubscriptionService) GetRemainingQuota(entrepriseID int64) (Quota, apierror.ErrorResponse) {
	sub, apierr := s.GetActiveSubscription(entrepriseID)
	if apierr != nil || sub == nil {
		return Quota{}, apierr
	}
	return s.quotaOf(sub)
}

func (s *SubscriptionService) quotaOf(sub *entity.Subscription) (Quota, apierror.ErrorResponse) {
	plan, ok := s.Plans.Get(sub.Plan)
	if !ok {
		log.Errorf("subscription %d references unknown plan %q", sub.ID, sub.Plan)
		return Quota{}, apierror.InternalServerError
	}

	if plan.Unlimited() {
		return Quota{Unlimited: true}, nil
	}

	used, err := s.JobRepo.CountActive(sub.EntrepriseID)
	if err != nil {
		log.Errorf("failed to count active offers of entreprise %d: %v", sub.EntrepriseID, err)
		return Quota{}, apierror.InternalServerError
	}
	return Quota{Remaining: max(0, plan.MaxOffers-int(used))}, nil
}

// CanPublishOffer checks the subscription first, then the quota.
func (s *SubscriptionService) CanPublishOffer(entrepriseID int64) (*PublishCheck, apierror.ErrorResponse) {
	sub, apierr := s.GetActiveSubscription(entrepriseID)
	if apierr != nil {
		return nil, apierr
	}

	if sub == nil {
		return &PublishCheck{Reason: apierror.NoActiveSubscriptionError}, nil
	}

	quota, apierr := s.quotaOf(sub)
	if apierr != nil {
		return nil, apierr
	}

	plan, _ := s.Plans.Get(sub.Plan)
	if !quota.Unlimited && quota.Remaining == 0 {
		return &PublishCheck{Reason: apierror.QuotaExceededError, Plan: plan}, nil
	}
	return &PublishCheck{Allowed: true, Plan: plan}, nil
}

func (s *SubscriptionService) GetDaysRemaining(entrepriseID int64) (int, apierror.ErrorResponse) {
	sub, apierr := s.GetActiveSubscription(entrepriseID)
	if apierr != nil || sub == nil {
		return 0, apierr
	}
	return utils.CeilDays(sub.ExpiresAt - s.now()), nil
}

// GetStatus summarizes the caller's subscription for its dashboard.
func (s *SubscriptionService) GetStatus(actor *entity.User) (*contract.SubscriptionStatusResponse, apierror.ErrorResponse) {
	ent, apierr := entrepriseOf(s.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	check, apierr := s.CanPublishOffer(ent.ID)
	if apierr != nil {
		return nil, apierr
	}

	resp := &contract.SubscriptionStatusResponse{CanPublish: check.Allowed}
	if check.Reason != nil {
		resp.Reason = check.Reason.Reason
	}

	active, apierr := s.GetActiveSubscription(ent.ID)
	if apierr != nil {
		return nil, apierr
	}

	if active != nil {
		quota, apierr := s.quotaOf(active)
		if apierr != nil {
			return nil, apierr
		}

		if !quota.Unlimited {
			resp.RemainingQuota = &quota.Remaining
		}
		resp.Active = toSubscriptionResponse(active)
		resp.DaysRemaining = utils.CeilDays(active.ExpiresAt - s.now())
	} else {
		zero := 0
		resp.RemainingQuota = &zero
	}

	pending, err := s.SubRepo.FindPending(ent.ID)
	if err != nil {
		log.Errorf("failed to fetch pending subscription of entreprise %d: %v", ent.ID, err)
		return nil, apierror.InternalServerError
	}
	resp.Pending = toSubscriptionResponse(pending)
	return resp, nil
}

// ActivateSubscription grants the subscription. Dates given by the admin
// win; a missing start is today and a missing end is start plus the plan
// duration.
func (s *SubscriptionService) ActivateSubscription(actor *entity.User, id int64, req *contract.ActivateSubscriptionRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	if apierr := s.AdminPolicy.CanManageSubscriptions(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	sub, apierr := s.fetchSubscription(id)
	if apierr != nil {
		return nil, apierr
	}

	if !entity.CanTransition(sub.PaymentStatus, entity.PaymentVerified) {
		return nil, apierror.InvalidTransition
	}

	plan, ok := s.Plans.Get(sub.Plan)
	if !ok {
		log.Errorf("subscription %d references unknown plan %q", sub.ID, sub.Plan)
		return nil, apierror.InternalServerError
	}

	now := s.now()
	start, end, apierr := activationWindow(req, plan, now)
	if apierr != nil {
		return nil, apierr
	}

	sub.IsActive = true
	sub.PaymentStatus = entity.PaymentVerified
	sub.StartsAt = start
	sub.ExpiresAt = end
	sub.VerifiedBy = &actor.ID
	sub.VerifiedAt = &now
	sub.AdminNotes = req.Notes
	sub.UpdatedAt = now

	if err := s.SubRepo.Activate(sub); err != nil {
		log.Errorf("admin %d failed to activate subscription %d: %v", actor.ID, sub.ID, err)
		return nil, apierror.InternalServerError
	}
	return toSubscriptionResponse(sub), nil
}

func activationWindow(req *contract.ActivateSubscriptionRequest, plan *plans.Plan, now int64) (int64, int64, apierror.ErrorResponse) {
	start := now
	if req.StartsAt != nil {
		parsed, err := utils.ParseDate(*req.StartsAt)
		if err != nil {
			return 0, 0, apierror.NewInvalidParamTypeError("starts_at", utils.DateLayout)
		}
		start = parsed
	}

	end := start + plan.Duration().Milliseconds()
	if req.EndsAt != nil {
		parsed, err := utils.ParseDate(*req.EndsAt)
		if err != nil {
			return 0, 0, apierror.NewInvalidParamTypeError("ends_at", utils.DateLayout)
		}
		end = parsed
	}

	if start >= end {
		return 0, 0, apierror.InvalidDateRangeError
	}
	return start, end, nil
}

func (s *SubscriptionService) RejectSubscription(actor *entity.User, id int64, req *contract.AdminNotesRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	if apierr := s.AdminPolicy.CanManageSubscriptions(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	sub, apierr := s.fetchSubscription(id)
	if apierr != nil {
		return nil, apierr
	}

	if !entity.CanTransition(sub.PaymentStatus, entity.PaymentRejected) {
		return nil, apierror.InvalidTransition
	}

	now := s.now()
	sub.IsActive = false
	sub.PaymentStatus = entity.PaymentRejected
	sub.VerifiedBy = &actor.ID
	sub.VerifiedAt = &now
	sub.AdminNotes = req.Notes
	sub.UpdatedAt = now

	if err := s.SubRepo.Reject(sub); err != nil {
		log.Errorf("admin %d failed to reject subscription %d: %v", actor.ID, sub.ID, err)
		return nil, apierror.InternalServerError
	}
	return toSubscriptionResponse(sub), nil
}

// DeactivateSubscription ends an active subscription right now.
func (s *SubscriptionService) DeactivateSubscription(actor *entity.User, id int64) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	if apierr := s.AdminPolicy.CanManageSubscriptions(actor); apierr != nil {
		return nil, apierr
	}

	sub, apierr := s.fetchSubscription(id)
	if apierr != nil {
		return nil, apierr
	}

	if !sub.IsActive {
		return nil, apierror.InvalidTransition
	}

	now := s.now()
	sub.IsActive = false
	sub.ExpiresAt = now
	sub.UpdatedAt = now

	if err := s.SubRepo.Save(sub); err != nil {
		log.Errorf("admin %d failed to deactivate subscription %d: %v", actor.ID, sub.ID, err)
		return nil, apierror.InternalServerError
	}
	return toSubscriptionResponse(sub), nil
}

func (s *SubscriptionService) ListSubscriptions(actor *entity.User, query *contract.AdminListQuery) (*contract.SubscriptionListResponse, apierror.ErrorResponse) {
	if apierr := s.AdminPolicy.CanManageSubscriptions(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(query)
	if err := s.Validate.Struct(query); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	status := entity.PaymentStatus(query.Status)
	switch status {
	case "", entity.PaymentPending, entity.PaymentVerified, entity.PaymentRejected:
	default:
		return nil, apierror.NewInvalidParamTypeError("status", "pending|verified|rejected")
	}

	limit, offset := pageOf(query.Limit, query.Offset)
	subs, total, err := s.SubRepo.FindByPaymentStatus(status, limit, offset)
	if err != nil {
		log.Errorf("failed to list subscriptions: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.SubscriptionListResponse{
		Subscriptions: make([]*contract.SubscriptionResponse, len(subs)),
		Total:         total,
	}
	for i, sub := range subs {
		resp.Subscriptions[i] = toSubscriptionResponse(sub)
		if payment, err := s.PaymentRepo.FindBySubscription(sub.ID); err == nil && payment != nil {
			resp.Subscriptions[i].PaymentReference = formatReference(payment.Reference)
		}
	}
	return resp, nil
}

func (s *SubscriptionService) fetchSubscription(id int64) (*entity.Subscription, apierror.ErrorResponse) {
	sub, err := s.SubRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch subscription %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if sub == nil {
		return nil, apierror.NotFoundError
	}
	return sub, nil
}
