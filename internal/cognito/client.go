package cognito

import "context"

// Client is the identity-provider boundary. Everything the rest of the
// system knows about authentication goes through these operations.
type Client interface {
	SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, input ConfirmSignUpInput) error
	ResendConfirmationCode(ctx context.Context, email string) error
	Login(ctx context.Context, input LoginInput) (AuthOutput, error)
	RefreshTokens(ctx context.Context, input RefreshInput) (AuthOutput, error)
	ForgotPassword(ctx context.Context, email string) error
	ConfirmForgotPassword(ctx context.Context, input ConfirmForgotPasswordInput) error
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	GlobalSignOut(ctx context.Context, accessToken string) error

	// UpdateProfile writes display attributes on the identity-provider
	// profile. Nil fields are left untouched.
	UpdateProfile(ctx context.Context, input UpdateProfileInput) error
}

// SignUpInput registers a new account. Name becomes the identity-provider
// display name.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SignUpOutput struct {
	UserSub      string
	Confirmed    bool
	CodeDelivery string // e.g. "EMAIL"
}

type ConfirmSignUpInput struct {
	Email string
	Code  string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput carries the token set returned after authentication.
type AuthOutput struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}

type RefreshInput struct {
	Email        string
	RefreshToken string
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

// UpdateProfileInput names the display attributes the profile flow keeps in
// sync with the document-store mirror.
type UpdateProfileInput struct {
	AccessToken string
	Name        *string
	PhotoURL    *string
}
