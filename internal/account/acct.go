// Package account provides account management functionality for the launcher.
// It handles authenticated users, their tokens, and account persistence.
package account

import (
	"golang.org/x/oauth2"
)

// Type identifies how an account authenticates.
type Type string

const (
	// TypeMicrosoft is a Microsoft (MSA) account.
	TypeMicrosoft Type = "microsoft"
	// TypeMojang is a legacy Mojang account.
	TypeMojang Type = "mojang"
)

// Account is a signed-in user.
type Account struct {
	// UUID is the Minecraft profile id.
	UUID string `json:"uuid"`
	// DisplayName is the in-game player name.
	DisplayName string `json:"displayName"`
	// Username is the login name (an email for most accounts).
	Username string `json:"username,omitempty"`
	// Type is the authentication provider of the account.
	Type Type `json:"type"`

	// Token holds the access and refresh tokens. It is stored in the OS
	// keyring, never in the account file.
	Token *oauth2.Token `json:"-"`
}

// User is the authenticated user context handed to the process builder.
type User struct {
	Name        string
	UUID        string
	AccessToken string
	// UserType is the value substituted for ${user_type}: "msa" or "mojang".
	UserType string
}

// User returns the launch context for the account.
func (a *Account) User() User {
	u := User{
		Name:     a.DisplayName,
		UUID:     a.UUID,
		UserType: "mojang",
	}
	if a.Type == TypeMicrosoft {
		u.UserType = "msa"
	}
	if a.Token != nil {
		u.AccessToken = a.Token.AccessToken
	}
	return u
}
