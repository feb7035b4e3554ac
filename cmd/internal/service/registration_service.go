package service

import (
	"context"
	"mime/multipart"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	cognitoclient "omigec/cmd/internal/infrastructure/aws/cognito"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"omigec/cmd/internal/utils/uid"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// MembershipFee is the yearly cotisation in MRU, paid with the
// registration receipt.
const MembershipFee int64 = 2000

type RegistrationRepository interface {
	CreateEngineer(user *entity.User, profile *entity.Profile, ver *entity.Verification, ref *entity.Reference, payment *entity.Payment) error
	CreateEntreprise(user *entity.User, ent *entity.Entreprise) error
}

type VerificationRepository interface {
	LatestVerification(profileID int64) (*entity.Verification, error)
	LatestReference(profileID int64) (*entity.Reference, error)
	FindReference(id int64) (*entity.Reference, error)
	FindPendingBySponsor(sponsorID int64) ([]*entity.Reference, error)
	SaveReview(profile *entity.Profile, ver *entity.Verification, ref *entity.Reference, payment *entity.Payment) error
	Resubmit(profile *entity.Profile, ver *entity.Verification) error
}

// Documents maps each uploaded file to its kind.
type Documents map[entity.DocumentKind]*multipart.FileHeader

type RegistrationService struct {
	RegRepo          RegistrationRepository
	UserRepo         UserRepository
	ProfileRepo      ProfileRepository
	EntrepriseRepo   EntrepriseRepository
	VerificationRepo VerificationRepository
	Cognito          cognitoclient.CognitoInterface
	S3               storage.S3Client
	Validate         *validator.Validate

	now func() int64
}

func NewRegistrationService(
	regRepo RegistrationRepository,
	userRepo UserRepository,
	profileRepo ProfileRepository,
	entrepriseRepo EntrepriseRepository,
	verificationRepo VerificationRepository,
	cogClient cognitoclient.CognitoInterface,
	s3 storage.S3Client,
	validate *validator.Validate,
) *RegistrationService {
	return &RegistrationService{
		RegRepo:          regRepo,
		UserRepo:         userRepo,
		ProfileRepo:      profileRepo,
		EntrepriseRepo:   entrepriseRepo,
		VerificationRepo: verificationRepo,
		Cognito:          cogClient,
		S3:               s3,
		Validate:         validate,
		now:              utils.NowUTC,
	}
}

// RegisterEngineer creates the Cognito identity, uploads the three
// documents and writes the membership rows. Any failure undoes the
// previous steps.
func (r *RegistrationService) RegisterEngineer(ctx context.Context, req *contract.EngineerRegistrationRequest, docs Documents) (*contract.RegistrationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	req.Phone = utils.NormalizePhone(req.Phone)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	for _, kind := range entity.DocumentKinds {
		header, ok := docs[kind]
		if !ok || header == nil {
			return nil, apierror.NewMissingDocumentError(string(kind))
		}

		if apierr := checkDocument(header); apierr != nil {
			return nil, apierr
		}
	}

	if apierr := r.checkEngineerUnique(req); apierr != nil {
		return nil, apierr
	}

	if apierr := r.checkParrain(req.ParrainID); apierr != nil {
		return nil, apierr
	}

	sg := newSaga("engineer registration " + req.Email)
	sub, apierr := r.signUp(ctx, sg, &cognitoclient.User{Email: req.Email, Password: req.Password, Name: req.FullName})
	if apierr != nil {
		return nil, apierr
	}

	keys := make(map[entity.DocumentKind]string, len(entity.DocumentKinds))
	for _, kind := range entity.DocumentKinds {
		key, apierr := r.upload(ctx, sg, PathDocuments+req.NNI+"/"+string(kind)+"-", docs[kind])
		if apierr != nil {
			return nil, r.abort(ctx, sg, apierr)
		}
		keys[kind] = key
	}

	now := r.now()
	user := &entity.User{
		SubUUID:   sub,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      entity.RoleEngineer,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	profile := &entity.Profile{
		NNI:                req.NNI,
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		City:               req.City,
		DiplomaTitle:       req.DiplomaTitle,
		DiplomaInstitution: req.DiplomaInstitution,
		DiplomaYear:        req.DiplomaYear,
		Domains:            entity.JoinDomains(req.Domains),
		ExerciseMode:       entity.ExerciseMode(req.ExerciseMode),
		Status:             entity.ProfileStatusPendingDocs,
		ParrainID:          req.ParrainID,
		DiplomaKey:         keys[entity.DocumentDiploma],
		NationalIDKey:      keys[entity.DocumentNationalID],
		ReceiptKey:         keys[entity.DocumentReceipt],
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	ver := &entity.Verification{Status: entity.ReviewPending, CreatedAt: now}
	payment := &entity.Payment{
		Reference:  uid.Generate(),
		PayerKind:  entity.PayerProfile,
		Purpose:    entity.PurposeCotisation,
		Amount:     MembershipFee,
		ReceiptKey: keys[entity.DocumentReceipt],
		Status:     entity.PaymentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var ref *entity.Reference
	if req.ParrainID != nil {
		ref = &entity.Reference{SponsorID: *req.ParrainID, Status: entity.ReviewPending, CreatedAt: now}
	}

	if err := r.RegRepo.CreateEngineer(user, profile, ver, ref, payment); err != nil {
		log.Errorf("failed to persist engineer registration %s: %v", req.Email, err)
		return nil, r.abort(ctx, sg, apierror.InternalServerError)
	}

	return &contract.RegistrationResponse{
		UserID:           user.ID,
		ProfileID:        &profile.ID,
		Status:           string(profile.Status),
		PaymentReference: formatReference(payment.Reference),
	}, nil
}

// RegisterEntreprise creates the Cognito identity and the entreprise,
// which then waits for an admin.
func (r *RegistrationService) RegisterEntreprise(ctx context.Context, req *contract.EntrepriseRegistrationRequest) (*contract.RegistrationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	req.Phone = utils.NormalizePhone(req.Phone)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	exists, err := r.EntrepriseRepo.ExistsByNIF(req.NIF)
	if err != nil {
		log.Errorf("failed to check NIF %s: %v", req.NIF, err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, apierror.NIFAlreadyExistsError
	}

	if apierr := r.checkEmailFree(req.Email); apierr != nil {
		return nil, apierr
	}

	sg := newSaga("entreprise registration " + req.Email)
	sub, apierr := r.signUp(ctx, sg, &cognitoclient.User{Email: req.Email, Password: req.Password, Name: req.Name})
	if apierr != nil {
		return nil, apierr
	}

	now := r.now()
	user := &entity.User{
		SubUUID:   sub,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      entity.RoleEntreprise,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ent := &entity.Entreprise{
		Name:      req.Name,
		NIF:       req.NIF,
		Sector:    req.Sector,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Website:   req.Website,
		Status:    entity.EntrepriseStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.RegRepo.CreateEntreprise(user, ent); err != nil {
		log.Errorf("failed to persist entreprise registration %s: %v", req.Email, err)
		return nil, r.abort(ctx, sg, apierror.InternalServerError)
	}

	return &contract.RegistrationResponse{
		UserID:       user.ID,
		EntrepriseID: &ent.ID,
		Status:       string(ent.Status),
	}, nil
}

// ResubmitDocuments lets a rejected engineer replace some or all of the
// documents, which reopens the review. Old objects are removed once the
// new ones are committed.
func (r *RegistrationService) ResubmitDocuments(ctx context.Context, actor *entity.User, docs Documents) (*contract.ProfileResponse, apierror.ErrorResponse) {
	profile, apierr := profileOf(r.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	if profile.Status != entity.ProfileStatusRejected ||
		!entity.CanTransition(profile.Status, entity.ProfileStatusPendingDocs) {
		return nil, apierror.NotResubmittableError
	}

	if len(docs) == 0 {
		return nil, apierror.MissingDocumentError
	}

	for kind, header := range docs {
		if _, ok := profile.DocumentKey(kind); !ok {
			return nil, apierror.UnknownDocumentKindError
		}

		if apierr := checkDocument(header); apierr != nil {
			return nil, apierr
		}
	}

	sg := newSaga("document resubmission " + profile.NNI)
	var stale []string
	for _, kind := range entity.DocumentKinds {
		header, ok := docs[kind]
		if !ok {
			continue
		}

		key, apierr := r.upload(ctx, sg, PathDocuments+profile.NNI+"/"+string(kind)+"-", header)
		if apierr != nil {
			return nil, r.abort(ctx, sg, apierr)
		}

		old, _ := profile.DocumentKey(kind)
		stale = append(stale, old)
		profile.SetDocumentKey(kind, key)
	}

	now := r.now()
	profile.Status = entity.ProfileStatusPendingDocs
	profile.RejectionReason = ""
	profile.UpdatedAt = now

	ver := &entity.Verification{ProfileID: profile.ID, Status: entity.ReviewPending, CreatedAt: now}
	if err := r.VerificationRepo.Resubmit(profile, ver); err != nil {
		log.Errorf("failed to persist resubmission of profile %d: %v", profile.ID, err)
		return nil, r.abort(ctx, sg, apierror.InternalServerError)
	}

	for _, key := range stale {
		if key == "" {
			continue
		}

		if err := r.S3.DeleteFile(ctx, key); err != nil {
			log.Warnf("failed to delete replaced document %s: %v", key, err)
		}
	}
	return toProfileResponse(profile), nil
}

func (r *RegistrationService) checkEngineerUnique(req *contract.EngineerRegistrationRequest) apierror.ErrorResponse {
	exists, err := r.ProfileRepo.ExistsByNNI(req.NNI)
	if err != nil {
		log.Errorf("failed to check NNI %s: %v", req.NNI, err)
		return apierror.InternalServerError
	}

	if exists {
		return apierror.NNIAlreadyExistsError
	}
	return r.checkEmailFree(req.Email)
}

func (r *RegistrationService) checkEmailFree(email string) apierror.ErrorResponse {
	exists, err := r.UserRepo.ExistsByEmail(email)
	if err != nil {
		log.Errorf("failed to check if user (%s) exists: %v", email, err)
		return apierror.InternalServerError
	}

	if exists {
		return apierror.EmailAlreadyExistsError
	}
	return nil
}

// checkParrain requires the named parrain to be a validated engineer.
// Registering without one is allowed, the admin review then suffices.
func (r *RegistrationService) checkParrain(parrainID *int64) apierror.ErrorResponse {
	if parrainID == nil {
		return nil
	}

	parrain, err := r.ProfileRepo.FindByID(*parrainID)
	if err != nil {
		log.Errorf("failed to fetch parrain %d: %v", *parrainID, err)
		return apierror.InternalServerError
	}

	if parrain == nil || parrain.Status != entity.ProfileStatusValidated {
		return apierror.InvalidParrainError
	}
	return nil
}

func (r *RegistrationService) signUp(ctx context.Context, sg *saga, user *cognitoclient.User) (string, apierror.ErrorResponse) {
	sub, err := r.Cognito.SignUp(ctx, user)
	if err != nil {
		return "", utils.MapCognitoError(err)
	}

	sg.onRollback("cognito user "+user.Email, func(ctx context.Context) error {
		return r.Cognito.AdminDeleteUser(ctx, user.Email)
	})
	return sub, nil
}

func (r *RegistrationService) upload(ctx context.Context, sg *saga, prefix string, header *multipart.FileHeader) (string, apierror.ErrorResponse) {
	key, apierr := uploadFile(ctx, r.S3, prefix, header)
	if apierr != nil {
		return "", apierr
	}

	sg.onRollback("object "+key, func(ctx context.Context) error {
		return r.S3.DeleteFile(ctx, key)
	})
	return key, nil
}

// abort rolls the saga back. The original error is returned unless the
// rollback itself left something behind.
func (r *RegistrationService) abort(ctx context.Context, sg *saga, cause apierror.ErrorResponse) apierror.ErrorResponse {
	if err := sg.rollback(ctx); err != nil {
		log.Errorf("%s: rollback incomplete: %v", sg.name, err)
		return apierror.RollbackIncomplete
	}
	return cause
}
