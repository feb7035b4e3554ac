package service

import (
	"errors"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	cognitoclient "omigec/cmd/internal/infrastructure/aws/cognito"
	"omigec/cmd/internal/utils/apierror"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const applicantEmail = "amadou@example.mr"

func engineerRequest() *contract.EngineerRegistrationRequest {
	return &contract.EngineerRegistrationRequest{
		Email:              " Amadou@Example.mr ",
		Password:           "Motdepasse1!",
		NNI:                "2345678901",
		FullName:           "Amadou Sow",
		Phone:              "+222 36 12 34 56",
		City:               "Nouakchott",
		DiplomaTitle:       "Ingénieur en génie civil",
		DiplomaInstitution: "École Supérieure Polytechnique",
		DiplomaYear:        2019,
		Domains:            []string{"civil", "hydraulique"},
		ExerciseMode:       "liberal",
	}
}

func documents(t *testing.T) Documents {
	return Documents{
		entity.DocumentDiploma:    fileHeader(t, "diplome.pdf", []byte("%PDF-diploma")),
		entity.DocumentNationalID: fileHeader(t, "nni.jpg", []byte("jpeg")),
		entity.DocumentReceipt:    fileHeader(t, "recu.png", []byte("png")),
	}
}

func keyOf(kind entity.DocumentKind) any {
	return mock.MatchedBy(func(key string) bool {
		return strings.Contains(key, "/"+string(kind)+"-")
	})
}

func matchEmail(email string) any {
	return mock.MatchedBy(func(u *cognitoclient.User) bool { return u.Email == email })
}

func TestRegistrationService_RegisterEngineer(t *testing.T) {
	h := newHarness(t)
	h.cognito.On("SignUp", mock.Anything, matchEmail(applicantEmail)).Return("sub-amadou", nil).Once()
	h.s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)

	resp, apierr := h.registration.RegisterEngineer(t.Context(), engineerRequest(), documents(t))
	require.Nil(t, apierr)
	require.NotNil(t, resp.ProfileID)
	assert.Equal(t, string(entity.ProfileStatusPendingDocs), resp.Status)
	assert.NotEmpty(t, resp.PaymentReference)
	h.cognito.AssertExpectations(t)
	h.s3.AssertExpectations(t)

	profile, err := h.profiles.FindByID(*resp.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "36123456", profile.Phone)
	assert.Equal(t, "civil hydraulique", profile.Domains)
	assert.True(t, strings.HasPrefix(profile.DiplomaKey, "documents/2345678901/diploma-"))
	assert.True(t, strings.HasSuffix(profile.NationalIDKey, ".jpg"))
	assert.Nil(t, profile.ParrainID)

	user, err := h.users.FindByEmail(applicantEmail)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "sub-amadou", user.SubUUID)
	assert.Equal(t, entity.RoleEngineer, user.Role)
	assert.False(t, user.EmailVerified)

	ver, err := h.verifs.LatestVerification(profile.ID)
	require.NoError(t, err)
	require.NotNil(t, ver)
	assert.Equal(t, entity.ReviewPending, ver.Status)

	ref, err := h.verifs.LatestReference(profile.ID)
	require.NoError(t, err)
	assert.Nil(t, ref)

	payment, err := h.payments.FindCotisation(profile.ID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, MembershipFee, payment.Amount)
	assert.Equal(t, profile.ReceiptKey, payment.ReceiptKey)
	assert.Equal(t, resp.PaymentReference, formatReference(payment.Reference))
}

func TestRegistrationService_RegisterEngineerWithParrain(t *testing.T) {
	h := newHarness(t)
	_, parrain := h.seedEngineer(t, entity.ProfileStatusValidated, nil)
	h.cognito.On("SignUp", mock.Anything, mock.Anything).Return("sub-amadou", nil)
	h.s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := engineerRequest()
	req.ParrainID = &parrain.ID
	resp, apierr := h.registration.RegisterEngineer(t.Context(), req, documents(t))
	require.Nil(t, apierr)

	ref, err := h.verifs.LatestReference(*resp.ProfileID)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, parrain.ID, ref.SponsorID)
	assert.Equal(t, entity.ReviewPending, ref.Status)
}

func TestRegistrationService_PreconditionsStopBeforeSignUp(t *testing.T) {
	h := newHarness(t)
	_, pendingParrain := h.seedEngineer(t, entity.ProfileStatusPendingDocs, nil)
	_, taken := h.seedEngineer(t, entity.ProfileStatusValidated, nil)

	t.Run("missing document", func(t *testing.T) {
		docs := documents(t)
		delete(docs, entity.DocumentReceipt)
		_, apierr := h.registration.RegisterEngineer(t.Context(), engineerRequest(), docs)
		require.NotNil(t, apierr)
		assert.Equal(t, "MISSING_DOCUMENT", apierr.(*apierror.APIError).Reason)
	})

	t.Run("bad extension", func(t *testing.T) {
		docs := documents(t)
		docs[entity.DocumentDiploma] = fileHeader(t, "diplome.exe", []byte("MZ"))
		_, apierr := h.registration.RegisterEngineer(t.Context(), engineerRequest(), docs)
		require.NotNil(t, apierr)
		assert.Equal(t, 400, apierr.Code())
	})

	t.Run("parrain not validated", func(t *testing.T) {
		req := engineerRequest()
		req.ParrainID = &pendingParrain.ID
		_, apierr := h.registration.RegisterEngineer(t.Context(), req, documents(t))
		assert.Equal(t, apierror.InvalidParrainError, apierr)
	})

	t.Run("nni taken", func(t *testing.T) {
		req := engineerRequest()
		req.NNI = taken.NNI
		_, apierr := h.registration.RegisterEngineer(t.Context(), req, documents(t))
		assert.Equal(t, apierror.NNIAlreadyExistsError, apierr)
	})

	t.Run("email taken", func(t *testing.T) {
		req := engineerRequest()
		req.Email = taken.Email
		_, apierr := h.registration.RegisterEngineer(t.Context(), req, documents(t))
		assert.Equal(t, apierror.EmailAlreadyExistsError, apierr)
	})

	t.Run("invalid payload", func(t *testing.T) {
		req := engineerRequest()
		req.NNI = "1111111111"
		req.Domains = []string{"astrologie"}
		_, apierr := h.registration.RegisterEngineer(t.Context(), req, documents(t))
		require.NotNil(t, apierr)
		structured := apierr.(*apierror.StructuredError)
		assert.Contains(t, structured.Errors, "nni")
	})

	h.cognito.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	h.s3.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_UploadFailureUndoesInReverse(t *testing.T) {
	h := newHarness(t)
	var undone []string

	h.cognito.On("SignUp", mock.Anything, mock.Anything).Return("sub-amadou", nil)
	h.cognito.On("AdminDeleteUser", mock.Anything, applicantEmail).
		Run(func(mock.Arguments) { undone = append(undone, "cognito") }).
		Return(nil).Once()
	h.s3.On("UploadFile", mock.Anything, mock.Anything, keyOf(entity.DocumentNationalID)).Return(errors.New("s3 down"))
	h.s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	h.s3.On("DeleteFile", mock.Anything, keyOf(entity.DocumentDiploma)).
		Run(func(mock.Arguments) { undone = append(undone, "diploma") }).
		Return(nil).Once()

	_, apierr := h.registration.RegisterEngineer(t.Context(), engineerRequest(), documents(t))
	require.NotNil(t, apierr)
	assert.Equal(t, 502, apierr.Code())
	assert.Equal(t, []string{"diploma", "cognito"}, undone)

	h.cognito.AssertExpectations(t)
	h.s3.AssertExpectations(t)

	exists, err := h.users.ExistsByEmail(applicantEmail)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegistrationService_DatabaseFailureUndoesEverything(t *testing.T) {
	h := newHarness(t)
	// Same Cognito sub as the one SignUp returns, the insert hits the
	// unique index
	require.NoError(t, h.users.Save(&entity.User{
		SubUUID:   "sub-amadou",
		Email:     "someone@example.mr",
		Phone:     "22000000",
		Role:      entity.RoleEngineer,
		Active:    true,
		CreatedAt: h.clock,
		UpdatedAt: h.clock,
	}))

	h.cognito.On("SignUp", mock.Anything, mock.Anything).Return("sub-amadou", nil)
	h.cognito.On("AdminDeleteUser", mock.Anything, applicantEmail).Return(nil).Once()
	h.s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	h.s3.On("DeleteFile", mock.Anything, mock.Anything).Return(nil).Times(3)

	_, apierr := h.registration.RegisterEngineer(t.Context(), engineerRequest(), documents(t))
	assert.Equal(t, apierror.InternalServerError, apierr)
	h.cognito.AssertExpectations(t)
	h.s3.AssertExpectations(t)

	exists, err := h.profiles.ExistsByNNI("2345678901")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegistrationService_RollbackIncomplete(t *testing.T) {
	h := newHarness(t)
	h.cognito.On("SignUp", mock.Anything, mock.Anything).Return("sub-amadou", nil)
	h.cognito.On("AdminDeleteUser", mock.Anything, applicantEmail).Return(errors.New("throttled"))
	h.s3.On("UploadFile", mock.Anything, mock.Anything, keyOf(entity.DocumentDiploma)).Return(errors.New("s3 down"))

	_, apierr := h.registration.RegisterEngineer(t.Context(), engineerRequest(), documents(t))
	assert.Equal(t, apierror.RollbackIncomplete, apierr)
}

func TestRegistrationService_RegisterEntreprise(t *testing.T) {
	h := newHarness(t)
	h.cognito.On("SignUp", mock.Anything, matchEmail("rh@snim.mr")).Return("sub-snim", nil).Once()

	req := &contract.EntrepriseRegistrationRequest{
		Email:    "RH@snim.mr",
		Password: "Motdepasse1!",
		Name:     "SNIM",
		NIF:      "30012345",
		Sector:   "Mines",
		Phone:    "45 22 33 44",
		City:     "Nouadhibou",
	}
	resp, apierr := h.registration.RegisterEntreprise(t.Context(), req)
	require.Nil(t, apierr)
	require.NotNil(t, resp.EntrepriseID)
	assert.Equal(t, string(entity.EntrepriseStatusPending), resp.Status)

	ent, err := h.ents.FindByID(*resp.EntrepriseID)
	require.NoError(t, err)
	assert.Equal(t, "45223344", ent.Phone)
	assert.Equal(t, resp.UserID, ent.UserID)

	again := *req
	again.Email = "contact@snim.mr"
	_, apierr = h.registration.RegisterEntreprise(t.Context(), &again)
	assert.Equal(t, apierror.NIFAlreadyExistsError, apierr)
}

func TestRegistrationService_CognitoRejectsSignUp(t *testing.T) {
	h := newHarness(t)
	h.cognito.On("SignUp", mock.Anything, mock.Anything).Return("", &types.UsernameExistsException{})

	req := &contract.EntrepriseRegistrationRequest{
		Email:    "rh@snim.mr",
		Password: "Motdepasse1!",
		Name:     "SNIM",
		NIF:      "30012345",
		Sector:   "Mines",
		Phone:    "45223344",
		City:     "Nouadhibou",
	}
	_, apierr := h.registration.RegisterEntreprise(t.Context(), req)
	assert.Equal(t, apierror.IDPExistingEmailError, apierr)
	h.cognito.AssertNotCalled(t, "AdminDeleteUser", mock.Anything, mock.Anything)
}

func TestRegistrationService_ResubmitDocuments(t *testing.T) {
	h := newHarness(t)
	user, profile := h.seedEngineer(t, entity.ProfileStatusRejected, nil)
	oldDiploma := profile.DiplomaKey
	before, err := h.verifs.LatestVerification(profile.ID)
	require.NoError(t, err)

	h.s3.On("UploadFile", mock.Anything, mock.Anything, keyOf(entity.DocumentDiploma)).Return(nil).Once()
	h.s3.On("DeleteFile", mock.Anything, oldDiploma).Return(nil).Once()

	resp, apierr := h.registration.ResubmitDocuments(t.Context(), user, Documents{
		entity.DocumentDiploma: fileHeader(t, "diplome-v2.pdf", []byte("%PDF-2")),
	})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.ProfileStatusPendingDocs), resp.Status)
	h.s3.AssertExpectations(t)

	stored, err := h.profiles.FindByID(profile.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldDiploma, stored.DiplomaKey)
	assert.Equal(t, profile.NationalIDKey, stored.NationalIDKey)

	after, err := h.verifs.LatestVerification(profile.ID)
	require.NoError(t, err)
	assert.Greater(t, after.ID, before.ID)
	assert.Equal(t, entity.ReviewPending, after.Status)

	// Back in review, a second resubmission is refused
	_, apierr = h.registration.ResubmitDocuments(t.Context(), user, Documents{
		entity.DocumentDiploma: fileHeader(t, "diplome-v3.pdf", []byte("%PDF-3")),
	})
	assert.Equal(t, apierror.NotResubmittableError, apierr)
}

func TestRegistrationService_ResubmitNeedsAFile(t *testing.T) {
	h := newHarness(t)
	user, _ := h.seedEngineer(t, entity.ProfileStatusRejected, nil)

	_, apierr := h.registration.ResubmitDocuments(t.Context(), user, Documents{})
	assert.Equal(t, apierror.MissingDocumentError, apierr)
}
