package model

import "time"

// User is the document-store mirror of the identity-provider profile.
// Name and ProfileImage are written only by the profile update flow, which
// keeps them in sync with the Cognito display name and picture attributes.
// CreatedAt is set once at registration and never updated.
type User struct {
	ID           string    `json:"id"`
	CognitoSub   string    `json:"cognito_sub"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}
