package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/plans"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/domain/sqlite"
	"omigec/cmd/internal/domain/sqlite/repository"
	cognitoclient "omigec/cmd/internal/infrastructure/aws/cognito"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/infrastructure/cache"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/validators"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const day = utils.DayMillis

type mockCognito struct {
	mock.Mock
}

func (m *mockCognito) SignUp(ctx context.Context, user *cognitoclient.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *mockCognito) AdminDeleteUser(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockCognito) SignIn(ctx context.Context, user *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	args := m.Called(ctx, user)
	auth, _ := args.Get(0).(*cognitoclient.AuthCreate)
	return auth, args.Error(1)
}

func (m *mockCognito) ConfirmAccount(ctx context.Context, user *cognitoclient.UserConfirmation) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockCognito) ResendConfirmation(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// mockS3 echoes the requested key on upload, only the error is scripted.
type mockS3 struct {
	mock.Mock
}

func (m *mockS3) UploadFile(ctx context.Context, data []byte, key string) (string, error) {
	args := m.Called(ctx, data, key)
	return key, args.Error(0)
}

func (m *mockS3) DeleteFile(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockS3) GetFile(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*storage.Object)
	return obj, args.Error(1)
}

// harness wires every service on a fresh in-memory database with a
// fixed clock.
type harness struct {
	db      *gorm.DB
	clock   int64
	cognito *mockCognito
	s3      *mockS3

	users    *repository.DefaultUserRepository
	profiles *repository.DefaultProfileRepository
	ents     *repository.DefaultEntrepriseRepository
	subRepo  *repository.DefaultSubscriptionRepository
	jobRepo  *repository.DefaultJobRepository
	appRepo  *repository.DefaultApplicationRepository
	payments *repository.DefaultPaymentRepository
	verifs   *repository.DefaultVerificationRepository
	sponsors *repository.DefaultSponsorRepository
	regs     *repository.DefaultRegistrationRepository

	subs         *SubscriptionService
	jobs         *JobService
	apps         *ApplicationService
	auth         *AuthService
	registration *RegistrationService
	verification *VerificationService
	entreprises  *EntrepriseService
	profileSvc   *ProfileService
	sponsorSvc   *SponsorService

	seq int
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithCache(t, cache.Nop{})
}

func newHarnessWithCache(t *testing.T, dirCache cache.Cache) *harness {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	h := &harness{
		db:       db,
		clock:    mustDate(t, "2026-03-10") + 10*60*60*1000,
		cognito:  &mockCognito{},
		s3:       &mockS3{},
		users:    repository.NewUserRepository(db),
		profiles: repository.NewProfileRepository(db),
		ents:     repository.NewEntrepriseRepository(db),
		subRepo:  repository.NewSubscriptionRepository(db),
		jobRepo:  repository.NewJobRepository(db),
		appRepo:  repository.NewApplicationRepository(db),
		payments: repository.NewPaymentRepository(db),
		verifs:   repository.NewVerificationRepository(db),
		sponsors: repository.NewSponsorRepository(db),
		regs:     repository.NewRegistrationRepository(db),
	}

	validate := validators.New()
	adminPolicy := policy.NewAdminPolicy()
	ownership := policy.NewOwnershipPolicy()
	now := func() int64 { return h.clock }

	h.subs = NewSubscriptionService(h.subRepo, h.ents, h.jobRepo, h.payments, plans.Default(), adminPolicy, validate)
	h.subs.now = now
	h.jobs = NewJobService(h.jobRepo, h.ents, h.subs, ownership, validate)
	h.jobs.now = now
	h.apps = NewApplicationService(h.appRepo, h.jobRepo, h.profiles, h.ents, ownership, validate)
	h.apps.now = now
	h.auth = NewAuthService(h.users, h.profiles, h.ents, validate, h.cognito)
	h.auth.now = now
	h.registration = NewRegistrationService(h.regs, h.users, h.profiles, h.ents, h.verifs, h.cognito, h.s3, validate)
	h.registration.now = now
	h.verification = NewVerificationService(h.profiles, h.verifs, h.payments, h.s3, dirCache, adminPolicy, ownership, validate)
	h.verification.now = now
	h.entreprises = NewEntrepriseService(h.ents, adminPolicy, validate)
	h.entreprises.now = now
	h.profileSvc = NewProfileService(h.profiles, dirCache, time.Minute, validate)
	h.profileSvc.now = now
	h.sponsorSvc = NewSponsorService(h.sponsors, h.s3, adminPolicy, validate)
	h.sponsorSvc.now = now
	return h
}

func mustDate(t *testing.T, date string) int64 {
	t.Helper()
	millis, err := utils.ParseDate(date)
	require.NoError(t, err)
	return millis
}

func (h *harness) next() string {
	h.seq++
	return strconv.Itoa(h.seq)
}

func (h *harness) seedAdmin(t *testing.T, perms entity.Permission) *entity.User {
	t.Helper()
	n := h.next()
	admin := &entity.User{
		SubUUID:     "admin-" + n,
		Email:       "admin" + n + "@omigec.mr",
		Phone:       "44000000",
		Role:        entity.RoleAdmin,
		Permissions: perms,
		Active:      true,
		CreatedAt:   h.clock,
		UpdatedAt:   h.clock,
	}
	require.NoError(t, h.users.Save(admin))
	return admin
}

func (h *harness) seedEntreprise(t *testing.T, status entity.EntrepriseStatus) (*entity.User, *entity.Entreprise) {
	t.Helper()
	n := h.next()
	user := &entity.User{
		SubUUID:   "ent-" + n,
		Email:     "ent" + n + "@example.mr",
		Phone:     "22334455",
		Role:      entity.RoleEntreprise,
		Active:    true,
		CreatedAt: h.clock,
		UpdatedAt: h.clock,
	}
	ent := &entity.Entreprise{
		Name:      "Entreprise " + n,
		NIF:       "9000" + n,
		Sector:    "BTP",
		Email:     user.Email,
		Phone:     user.Phone,
		City:      "Nouakchott",
		Status:    status,
		CreatedAt: h.clock,
		UpdatedAt: h.clock,
	}
	require.NoError(t, h.regs.CreateEntreprise(user, ent))
	return user, ent
}

// seedEngineer creates a member with a pending document review and, when
// 'parrain' is set, a pending reference.
func (h *harness) seedEngineer(t *testing.T, status entity.ProfileStatus, parrain *entity.Profile) (*entity.User, *entity.Profile) {
	t.Helper()
	n := h.next()
	nni := "1" + leftPad(n, 9)
	user := &entity.User{
		SubUUID:   "eng-" + n,
		Email:     "eng" + n + "@example.mr",
		Phone:     "3300" + leftPad(n, 4),
		Role:      entity.RoleEngineer,
		Active:    true,
		CreatedAt: h.clock,
		UpdatedAt: h.clock,
	}
	profile := &entity.Profile{
		NNI:                nni,
		FullName:           "Ingénieur " + n,
		Email:              user.Email,
		Phone:              user.Phone,
		City:               "Nouadhibou",
		DiplomaTitle:       "Génie civil",
		DiplomaInstitution: "ESP",
		DiplomaYear:        2018,
		Domains:            "civil",
		ExerciseMode:       entity.ExerciseEmployee,
		Status:             status,
		DiplomaKey:         "documents/" + nni + "/diploma.pdf",
		NationalIDKey:      "documents/" + nni + "/national_id.pdf",
		ReceiptKey:         "documents/" + nni + "/payment_receipt.pdf",
		CreatedAt:          h.clock,
		UpdatedAt:          h.clock,
	}
	ver := &entity.Verification{Status: entity.ReviewPending, CreatedAt: h.clock}
	var ref *entity.Reference
	if parrain != nil {
		profile.ParrainID = &parrain.ID
		ref = &entity.Reference{SponsorID: parrain.ID, Status: entity.ReviewPending, CreatedAt: h.clock}
	}
	reference, _ := strconv.ParseInt(nni, 10, 64)
	payment := &entity.Payment{
		Reference: reference,
		PayerKind: entity.PayerProfile,
		Purpose:   entity.PurposeCotisation,
		Amount:    MembershipFee,
		Status:    entity.PaymentPending,
		CreatedAt: h.clock,
		UpdatedAt: h.clock,
	}
	require.NoError(t, h.regs.CreateEngineer(user, profile, ver, ref, payment))
	return user, profile
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// fileHeader builds a real multipart header, the way echo hands them to
// the handlers.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
