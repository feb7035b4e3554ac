package cognitoclient

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// User is the default user struct for all basic Cognito operations.
type User struct {
	Email    string
	Password string
	Phone    string
	Name     string
}

// UserConfirmation is the default structure for approving e-mail verification.
type UserConfirmation struct {
	Email string
	Code  string
}

// UserLogin defines the standard structure for logging in to the application.
type UserLogin struct {
	Email    string
	Password string
}

// AuthCreate represents the response of Cognito sign in approval.
type AuthCreate struct {
	IDToken     string
	AccessToken string
	ExpiresIn   int32
}

type CognitoInterface interface {
	SignUp(ctx context.Context, user *User) (string, error)
	AdminDeleteUser(ctx context.Context, email string) error
	SignIn(ctx context.Context, user *UserLogin) (*AuthCreate, error)
	ConfirmAccount(ctx context.Context, user *UserConfirmation) error
	ResendConfirmation(ctx context.Context, email string) error
}

type cognitoClient struct {
	client      *cognito.Client
	appClientID string
	userPoolID  string
}

func NewCognitoClient(ctx context.Context, region, userPoolID, appClientID string) (CognitoInterface, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &cognitoClient{
		client:      cognito.NewFromConfig(cfg),
		appClientID: appClientID,
		userPoolID:  userPoolID,
	}, nil
}

// SignUp creates a new user row on Cognito and return its "sub" (the UUID)
func (c *cognitoClient) SignUp(ctx context.Context, user *User) (string, error) {
	attrs := []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(user.Email)},
	}
	if user.Name != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("name"), Value: aws.String(user.Name)})
	}

	out, err := c.client.SignUp(ctx, &cognito.SignUpInput{
		ClientId:       aws.String(c.appClientID),
		Username:       aws.String(user.Email),
		Password:       aws.String(user.Password),
		UserAttributes: attrs,
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

// AdminDeleteUser removes an identity created by a registration that
// failed further down the line. A missing user counts as deleted.
func (c *cognitoClient) AdminDeleteUser(ctx context.Context, email string) error {
	_, err := c.client.AdminDeleteUser(ctx, &cognito.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})

	var notFound *types.UserNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// ConfirmAccount is used to verify the user's e-mail address
func (c *cognitoClient) ConfirmAccount(ctx context.Context, user *UserConfirmation) error {
	_, err := c.client.ConfirmSignUp(ctx, &cognito.ConfirmSignUpInput{
		Username:         aws.String(user.Email),
		ConfirmationCode: aws.String(user.Code),
		ClientId:         aws.String(c.appClientID),
	})
	return err
}

// ResendConfirmation resends the verification code to the provided e-mail
func (c *cognitoClient) ResendConfirmation(ctx context.Context, email string) error {
	_, err := c.client.ResendConfirmationCode(ctx, &cognito.ResendConfirmationCodeInput{
		Username: aws.String(email),
		ClientId: aws.String(c.appClientID),
	})
	return err
}

// SignIn signs the user in... pretty straightforward
func (c *cognitoClient) SignIn(ctx context.Context, user *UserLogin) (*AuthCreate, error) {
	result, err := c.client.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": user.Email,
			"PASSWORD": user.Password,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, err
	}

	auth := result.AuthenticationResult
	if auth == nil {
		// MFA or another challenge, not enabled on the pool
		return nil, errors.New("cognito returned a challenge instead of tokens: " + string(result.ChallengeName))
	}
	return &AuthCreate{
		IDToken:     aws.ToString(auth.IdToken),
		AccessToken: aws.ToString(auth.AccessToken),
		ExpiresIn:   auth.ExpiresIn,
	}, nil
}
