package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taskpad/taskpad-api/internal/cognito"
	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/repository"
)

// AuthService handles registration, login, and the surrounding account
// flows. Registration writes two stores: the identity-provider profile and
// the mirrored document-store record.
type AuthService struct {
	cognitoClient cognito.Client
	userRepo      repository.UserRepository
}

func NewAuthService(cognitoClient cognito.Client, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		cognitoClient: cognitoClient,
		userRepo:      userRepo,
	}
}

// --- Input/Output types ---

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SignUpOutput struct {
	UserSub      string `json:"user_sub"`
	Confirmed    bool   `json:"confirmed"`
	CodeDelivery string `json:"code_delivery"`
}

type ConfirmSignUpInput struct {
	Email string
	Code  string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type RefreshInput struct {
	Email        string
	RefreshToken string
}

type RefreshOutput struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int32  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type ConfirmForgotPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

type ChangePasswordInput struct {
	AccessToken      string
	PreviousPassword string
	NewPassword      string
}

// --- Service methods ---

// requireProvider rejects calls when the deployment runs without an
// identity provider. Startup only warns in that case, so every method that
// talks to Cognito checks here instead of dereferencing a nil client.
func (s *AuthService) requireProvider() error {
	if s.cognitoClient == nil {
		return fmt.Errorf("%w: identity provider", ErrNotConfigured)
	}
	return nil
}

// SignUp registers the account with the identity provider and creates the
// mirrored profile record exactly once, with name, email, and the
// registration timestamp.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error) {
	if input.Name == "" {
		return SignUpOutput{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Email == "" {
		return SignUpOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return SignUpOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return SignUpOutput{}, err
	}

	out, err := s.cognitoClient.SignUp(ctx, cognito.SignUpInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return SignUpOutput{}, err
	}

	if _, err := s.userRepo.CreateProfile(ctx, model.User{
		CognitoSub: out.UserSub,
		Email:      input.Email,
		Name:       input.Name,
	}); err != nil {
		return SignUpOutput{}, fmt.Errorf("failed to create profile record: %w", err)
	}

	return SignUpOutput{
		UserSub:      out.UserSub,
		Confirmed:    out.Confirmed,
		CodeDelivery: out.CodeDelivery,
	}, nil
}

func (s *AuthService) ConfirmSignUp(ctx context.Context, input ConfirmSignUpInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return err
	}

	return s.cognitoClient.ConfirmSignUp(ctx, cognito.ConfirmSignUpInput{
		Email: input.Email,
		Code:  input.Code,
	})
}

func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return err
	}
	return s.cognitoClient.ResendConfirmationCode(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginOutput, error) {
	if input.Email == "" {
		return LoginOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return LoginOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return LoginOutput{}, err
	}

	authOut, err := s.cognitoClient.Login(ctx, cognito.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return LoginOutput{}, err
	}

	// The sub comes from a token Cognito just issued, so the payload is
	// decoded without signature verification.
	sub, err := extractSub(authOut.IDToken)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("failed to extract sub from id token: %w", err)
	}

	// Accounts that predate the mirrored store get their record on first
	// login; CreateProfile never touches an existing one.
	if _, err := s.userRepo.CreateProfile(ctx, model.User{
		CognitoSub: sub,
		Email:      input.Email,
	}); err != nil {
		return LoginOutput{}, fmt.Errorf("failed to ensure profile record: %w", err)
	}

	return LoginOutput{
		IDToken:      authOut.IDToken,
		AccessToken:  authOut.AccessToken,
		RefreshToken: authOut.RefreshToken,
		ExpiresIn:    authOut.ExpiresIn,
		TokenType:    authOut.TokenType,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (RefreshOutput, error) {
	if input.Email == "" {
		return RefreshOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.RefreshToken == "" {
		return RefreshOutput{}, fmt.Errorf("%w: refresh_token is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return RefreshOutput{}, err
	}

	authOut, err := s.cognitoClient.RefreshTokens(ctx, cognito.RefreshInput{
		Email:        input.Email,
		RefreshToken: input.RefreshToken,
	})
	if err != nil {
		return RefreshOutput{}, err
	}

	return RefreshOutput{
		IDToken:     authOut.IDToken,
		AccessToken: authOut.AccessToken,
		ExpiresIn:   authOut.ExpiresIn,
		TokenType:   authOut.TokenType,
	}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return err
	}
	return s.cognitoClient.ForgotPassword(ctx, email)
}

func (s *AuthService) ConfirmForgotPassword(ctx context.Context, input ConfirmForgotPasswordInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if input.NewPassword == "" {
		return fmt.Errorf("%w: new_password is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return err
	}

	return s.cognitoClient.ConfirmForgotPassword(ctx, cognito.ConfirmForgotPasswordInput{
		Email:       input.Email,
		Code:        input.Code,
		NewPassword: input.NewPassword,
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.AccessToken == "" {
		return fmt.Errorf("%w: access_token is required", ErrInvalidInput)
	}
	if input.PreviousPassword == "" {
		return fmt.Errorf("%w: previous_password is required", ErrInvalidInput)
	}
	if input.NewPassword == "" {
		return fmt.Errorf("%w: new_password is required", ErrInvalidInput)
	}
	if err := s.requireProvider(); err != nil {
		return err
	}

	return s.cognitoClient.ChangePassword(ctx, cognito.ChangePasswordInput{
		AccessToken:      input.AccessToken,
		PreviousPassword: input.PreviousPassword,
		NewPassword:      input.NewPassword,
	})
}

// Logout terminates the identity-provider session. Guest sessions have no
// identity-provider session at all, so callers treat a failure here as
// non-fatal: log it and proceed with local sign-out.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := s.requireProvider(); err != nil {
		return err
	}
	return s.cognitoClient.GlobalSignOut(ctx, accessToken)
}

// extractSub decodes the JWT payload (without verifying the signature) and
// extracts the "sub" claim.
func extractSub(idToken string) (string, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid JWT format")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode JWT payload: %w", err)
	}

	var claims struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("failed to parse JWT claims: %w", err)
	}
	if claims.Sub == "" {
		return "", fmt.Errorf("sub claim not found in JWT")
	}

	return claims.Sub, nil
}
