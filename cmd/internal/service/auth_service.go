package service

import (
	"context"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	cognitoclient "omigec/cmd/internal/infrastructure/aws/cognito"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	FindByPhone(phone string) (*entity.User, error)
	FindActiveBySub(sub string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type AuthService struct {
	UserRepo       UserRepository
	ProfileRepo    ProfileRepository
	EntrepriseRepo EntrepriseRepository
	Validate       *validator.Validate
	Cognito        cognitoclient.CognitoInterface

	now func() int64
}

func NewAuthService(
	userRepo UserRepository,
	profileRepo ProfileRepository,
	entrepriseRepo EntrepriseRepository,
	validate *validator.Validate,
	cogClient cognitoclient.CognitoInterface,
) *AuthService {
	return &AuthService{
		UserRepo:       userRepo,
		ProfileRepo:    profileRepo,
		EntrepriseRepo: entrepriseRepo,
		Validate:       validate,
		Cognito:        cogClient,
		now:            utils.NowUTC,
	}
}

func (a *AuthService) CheckEmail(req *contract.UserStatusRequest) (*contract.EmailStatus, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := a.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user (%s) exists: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	var status contract.EmailStatus
	switch {
	case user == nil:
		status = contract.EmailStatusAvailable
	case !user.EmailVerified:
		status = contract.EmailStatusVerifying
	default:
		status = contract.EmailStatusExists
	}
	return &status, nil
}

// Login accepts the account e-mail or its phone number. Cognito only
// knows the e-mail, so a phone is resolved locally first.
func (a *AuthService) Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.UserLoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := a.resolveIdentifier(req.Identifier)
	if apierr != nil {
		return nil, apierr
	}

	if !user.Active {
		return nil, apierror.MissingAccessError
	}

	credentials := &cognitoclient.UserLogin{
		Email:    user.Email,
		Password: req.Password,
	}

	auth, err := a.Cognito.SignIn(ctx, credentials)
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	return &contract.UserLoginResponse{
		AccessToken: auth.AccessToken,
		IDToken:     auth.IDToken,
		ExpiresIn:   auth.ExpiresIn,
		Role:        string(user.Role),
	}, nil
}

func (a *AuthService) ConfirmSignup(ctx context.Context, req *contract.ConfirmSignupRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, apierr := a.unconfirmedUser(req.Email)
	if apierr != nil {
		return apierr
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	if err := a.Cognito.ConfirmAccount(ctx, confirms); err != nil {
		return utils.MapCognitoError(err)
	}

	user.EmailVerified = true
	user.UpdatedAt = a.now()
	if err := a.UserRepo.Save(user); err != nil {
		// Cognito already confirmed, the next login still works
		log.Errorf("failed to update user (%d) verified status: %v", user.ID, err)
	}
	return nil
}

func (a *AuthService) ResendConfirmation(ctx context.Context, req *contract.ResendConfirmRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if _, apierr := a.unconfirmedUser(req.Email); apierr != nil {
		return apierr
	}

	if err := a.Cognito.ResendConfirmation(ctx, req.Email); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

// Me describes the caller with the id of its engineer profile or
// entreprise, whichever the role implies.
func (a *AuthService) Me(actor *entity.User) (*contract.MeResponse, apierror.ErrorResponse) {
	resp := &contract.MeResponse{
		ID:            actor.ID,
		Email:         actor.Email,
		Phone:         actor.Phone,
		Role:          string(actor.Role),
		Perms:         int64(actor.Permissions),
		EmailVerified: actor.EmailVerified,
		CreatedAt:     utils.FormatEpoch(actor.CreatedAt),
	}

	switch actor.Role {
	case entity.RoleEngineer:
		profile, apierr := profileOf(a.ProfileRepo, actor)
		if apierr != nil {
			return nil, apierr
		}
		resp.ProfileID = &profile.ID
	case entity.RoleEntreprise:
		ent, apierr := entrepriseOf(a.EntrepriseRepo, actor)
		if apierr != nil {
			return nil, apierr
		}
		resp.EntrepriseID = &ent.ID
	}
	return resp, nil
}

func (a *AuthService) resolveIdentifier(identifier string) (*entity.User, apierror.ErrorResponse) {
	var user *entity.User
	var err error
	if utils.LooksLikePhone(identifier) {
		user, err = a.UserRepo.FindByPhone(utils.NormalizePhone(identifier))
	} else {
		user, err = a.UserRepo.FindByEmail(strings.ToLower(identifier))
	}

	if err != nil {
		log.Errorf("failed to fetch user %s from database: %v", identifier, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}
	return user, nil
}

func (a *AuthService) unconfirmedUser(email string) (*entity.User, apierror.ErrorResponse) {
	user, err := a.UserRepo.FindByEmail(email)
	if err != nil {
		log.Errorf("failed to find user (%s) by email: %v", email, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return nil, apierror.UserAlreadyConfirmedError
	}
	return user, nil
}
