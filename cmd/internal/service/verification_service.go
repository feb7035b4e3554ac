package service

import (
	"context"
	"errors"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/infrastructure/cache"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// MembershipDuration is how long a validated membership lasts.
const MembershipDuration = 365 * 24 * time.Hour

const defaultReferenceRejection = "Référence refusée par le parrain"

type VerificationService struct {
	ProfileRepo      ProfileRepository
	VerificationRepo VerificationRepository
	PaymentRepo      PaymentRepository
	S3               storage.S3Client
	Cache            cache.Cache
	AdminPolicy      *policy.AdminPolicy
	OwnershipPolicy  *policy.OwnershipPolicy
	Validate         *validator.Validate

	now func() int64
}

func NewVerificationService(
	profileRepo ProfileRepository,
	verificationRepo VerificationRepository,
	paymentRepo PaymentRepository,
	s3 storage.S3Client,
	dirCache cache.Cache,
	adminPolicy *policy.AdminPolicy,
	ownershipPolicy *policy.OwnershipPolicy,
	validate *validator.Validate,
) *VerificationService {
	return &VerificationService{
		ProfileRepo:      profileRepo,
		VerificationRepo: verificationRepo,
		PaymentRepo:      paymentRepo,
		S3:               s3,
		Cache:            dirCache,
		AdminPolicy:      adminPolicy,
		OwnershipPolicy:  ownershipPolicy,
		Validate:         validate,
		now:              utils.NowUTC,
	}
}

func (v *VerificationService) ListEngineers(actor *entity.User, query *contract.AdminListQuery) (*contract.EngineerListResponse, apierror.ErrorResponse) {
	if apierr := v.AdminPolicy.CanVerifyEngineers(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(query)
	if err := v.Validate.Struct(query); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	status := entity.ProfileStatus(query.Status)
	switch status {
	case "", entity.ProfileStatusPendingDocs, entity.ProfileStatusPendingReference,
		entity.ProfileStatusValidated, entity.ProfileStatusRejected:
	default:
		return nil, apierror.NewInvalidParamTypeError("status", "profile status")
	}

	limit, offset := pageOf(query.Limit, query.Offset)
	profiles, total, err := v.ProfileRepo.FindByStatus(status, limit, offset)
	if err != nil {
		log.Errorf("failed to list engineers with status %q: %v", status, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = toProfileResponse(p)
	}
	return &contract.EngineerListResponse{Engineers: resp, Total: total}, nil
}

func (v *VerificationService) GetEngineer(actor *entity.User, profileID int64) (*contract.EngineerDetailResponse, apierror.ErrorResponse) {
	if apierr := v.AdminPolicy.CanVerifyEngineers(actor); apierr != nil {
		return nil, apierr
	}

	profile, apierr := v.fetchProfile(profileID)
	if apierr != nil {
		return nil, apierr
	}
	return v.detailOf(profile)
}

// ReviewDocuments records the admin decision on the latest submission and
// moves the profile to the status both approvals now imply.
func (v *VerificationService) ReviewDocuments(actor *entity.User, profileID int64, req *contract.ReviewRequest) (*contract.EngineerDetailResponse, apierror.ErrorResponse) {
	if apierr := v.AdminPolicy.CanVerifyEngineers(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := v.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	profile, apierr := v.fetchProfile(profileID)
	if apierr != nil {
		return nil, apierr
	}

	ver, err := v.VerificationRepo.LatestVerification(profile.ID)
	if err != nil {
		log.Errorf("failed to fetch verification of profile %d: %v", profile.ID, err)
		return nil, apierror.InternalServerError
	}

	if ver == nil {
		log.Warnf("profile %d has no verification to review", profile.ID)
		return nil, apierror.NotFoundError
	}

	decision := entity.ReviewRejected
	if *req.Approve {
		decision = entity.ReviewConfirmed
	}

	if !entity.CanTransition(ver.Status, decision) {
		return nil, apierror.InvalidTransition
	}

	ref, apierr := v.latestReference(profile.ID)
	if apierr != nil {
		return nil, apierr
	}

	now := v.now()
	target := entity.DeriveProfileStatus(decision, referenceStatus(ref))
	payment, apierr := v.applyStatus(profile, target, req.Notes, now)
	if apierr != nil {
		return nil, apierr
	}

	ver.Status = decision
	ver.Notes = req.Notes
	ver.ReviewedBy = &actor.ID
	ver.ReviewedAt = &now

	if err := v.VerificationRepo.SaveReview(profile, ver, nil, payment); err != nil {
		log.Errorf("admin %d failed to review profile %d: %v", actor.ID, profile.ID, err)
		return nil, apierror.InternalServerError
	}

	v.invalidateDirectory()
	return &contract.EngineerDetailResponse{
		Profile:      toProfileResponse(profile),
		Verification: toVerificationResponse(ver),
		Reference:    toReferenceResponse(ref),
		Payment:      toPaymentResponse(payment),
	}, nil
}

// ListPendingReferences lists the applicants waiting on the caller's
// confirmation as parrain.
func (v *VerificationService) ListPendingReferences(actor *entity.User) ([]*contract.ReferenceResponse, apierror.ErrorResponse) {
	sponsor, apierr := profileOf(v.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	refs, err := v.VerificationRepo.FindPendingBySponsor(sponsor.ID)
	if err != nil {
		log.Errorf("failed to list references pending on profile %d: %v", sponsor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ReferenceResponse, len(refs))
	for i, ref := range refs {
		resp[i] = toReferenceResponse(ref)
	}
	return resp, nil
}

func (v *VerificationService) RespondReference(actor *entity.User, referenceID int64, req *contract.RespondReferenceRequest) (*contract.ReferenceResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := v.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	sponsor, apierr := profileOf(v.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	ref, err := v.VerificationRepo.FindReference(referenceID)
	if err != nil {
		log.Errorf("failed to fetch reference %d: %v", referenceID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := v.OwnershipPolicy.CanRespondReference(sponsor, ref); apierr != nil {
		return nil, apierr
	}

	answer := entity.ReviewRejected
	if *req.Confirm {
		answer = entity.ReviewConfirmed
	}

	if !entity.CanTransition(ref.Status, answer) {
		return nil, apierror.InvalidTransition
	}

	profile, apierr := v.fetchProfile(ref.ProfileID)
	if apierr != nil {
		return nil, apierr
	}

	ver, err := v.VerificationRepo.LatestVerification(profile.ID)
	if err != nil {
		log.Errorf("failed to fetch verification of profile %d: %v", profile.ID, err)
		return nil, apierror.InternalServerError
	}

	docs := entity.ReviewPending
	if ver != nil {
		docs = ver.Status
	}

	reason := req.Comment
	if reason == "" {
		reason = defaultReferenceRejection
	}

	now := v.now()
	target := entity.DeriveProfileStatus(docs, answer)
	payment, apierr := v.applyStatus(profile, target, reason, now)
	if apierr != nil {
		return nil, apierr
	}

	ref.Status = answer
	ref.Comment = req.Comment
	ref.RespondedAt = &now

	if err := v.VerificationRepo.SaveReview(profile, nil, ref, payment); err != nil {
		log.Errorf("parrain %d failed to answer reference %d: %v", sponsor.ID, ref.ID, err)
		return nil, apierror.InternalServerError
	}

	v.invalidateDirectory()
	return toReferenceResponse(ref), nil
}

// GetDocument streams a registration document to its owner or to an
// admin reviewer. The caller must close the object body.
func (v *VerificationService) GetDocument(ctx context.Context, actor *entity.User, profileID int64, kind entity.DocumentKind) (*storage.Object, apierror.ErrorResponse) {
	profile, err := v.ProfileRepo.FindByID(profileID)
	if err != nil {
		log.Errorf("failed to fetch profile %d: %v", profileID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := v.OwnershipPolicy.CanReadDocument(actor, profile); apierr != nil {
		return nil, apierr
	}
	return v.openDocument(ctx, profile, kind)
}

func (v *VerificationService) GetMyDocument(ctx context.Context, actor *entity.User, kind entity.DocumentKind) (*storage.Object, apierror.ErrorResponse) {
	profile, apierr := profileOf(v.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}
	return v.openDocument(ctx, profile, kind)
}

func (v *VerificationService) openDocument(ctx context.Context, profile *entity.Profile, kind entity.DocumentKind) (*storage.Object, apierror.ErrorResponse) {
	key, ok := profile.DocumentKey(kind)
	if !ok {
		return nil, apierror.UnknownDocumentKindError
	}

	if key == "" {
		return nil, apierror.NotFoundError
	}

	obj, err := v.S3.GetFile(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		log.Warnf("document %s of profile %d is missing from storage", key, profile.ID)
		return nil, apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to fetch document %s: %v", key, err)
		return nil, apierror.NewUpstreamError("de stockage", err)
	}
	return obj, nil
}

// applyStatus moves 'profile' to 'target' in memory. When the membership
// becomes valid, the cotisation payment is returned verified so the
// caller persists it along with the profile.
func (v *VerificationService) applyStatus(profile *entity.Profile, target entity.ProfileStatus, reason string, now int64) (*entity.Payment, apierror.ErrorResponse) {
	if target == profile.Status {
		return nil, nil
	}

	if !entity.CanTransition(profile.Status, target) {
		return nil, apierror.InvalidTransition
	}

	profile.Status = target
	profile.UpdatedAt = now

	switch target {
	case entity.ProfileStatusRejected:
		profile.RejectionReason = reason
	case entity.ProfileStatusValidated:
		expiry := now + MembershipDuration.Milliseconds()
		profile.SubscriptionExpiry = &expiry
		profile.RejectionReason = ""

		payment, err := v.PaymentRepo.FindCotisation(profile.ID)
		if err != nil {
			log.Errorf("failed to fetch cotisation of profile %d: %v", profile.ID, err)
			return nil, apierror.InternalServerError
		}

		if payment != nil && entity.CanTransition(payment.Status, entity.PaymentVerified) {
			payment.Status = entity.PaymentVerified
			payment.UpdatedAt = now
			return payment, nil
		}
	}
	return nil, nil
}

func (v *VerificationService) detailOf(profile *entity.Profile) (*contract.EngineerDetailResponse, apierror.ErrorResponse) {
	ver, err := v.VerificationRepo.LatestVerification(profile.ID)
	if err != nil {
		log.Errorf("failed to fetch verification of profile %d: %v", profile.ID, err)
		return nil, apierror.InternalServerError
	}

	ref, apierr := v.latestReference(profile.ID)
	if apierr != nil {
		return nil, apierr
	}

	payment, err := v.PaymentRepo.FindCotisation(profile.ID)
	if err != nil {
		log.Errorf("failed to fetch cotisation of profile %d: %v", profile.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.EngineerDetailResponse{
		Profile:      toProfileResponse(profile),
		Verification: toVerificationResponse(ver),
		Reference:    toReferenceResponse(ref),
		Payment:      toPaymentResponse(payment),
	}, nil
}

func (v *VerificationService) latestReference(profileID int64) (*entity.Reference, apierror.ErrorResponse) {
	ref, err := v.VerificationRepo.LatestReference(profileID)
	if err != nil {
		log.Errorf("failed to fetch reference of profile %d: %v", profileID, err)
		return nil, apierror.InternalServerError
	}
	return ref, nil
}

func (v *VerificationService) fetchProfile(id int64) (*entity.Profile, apierror.ErrorResponse) {
	profile, err := v.ProfileRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch profile %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if profile == nil {
		return nil, apierror.NotFoundError
	}
	return profile, nil
}

func (v *VerificationService) invalidateDirectory() {
	if err := v.Cache.Invalidate(context.Background(), DirectoryCachePrefix); err != nil {
		log.Warnf("failed to invalidate directory cache: %v", err)
	}
}

// referenceStatus treats a registration without parrain as vouched for.
func referenceStatus(ref *entity.Reference) entity.ReviewStatus {
	if ref == nil {
		return entity.ReviewConfirmed
	}
	return ref.Status
}
