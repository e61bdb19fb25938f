package models

import "strings"

// User is the account record returned by the users endpoints.
type User struct {
	UserID    ID        `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// LocalUser is the signed-in account as the client keeps and persists it.
type LocalUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// Token is the token endpoint response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the body of the account creation call.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// DisplayName is the username when set, otherwise the local part of email.
func DisplayName(username, email string) string {
	if username != "" {
		return username
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// ToLocalUser converts the API user into its local form.
func ToLocalUser(u User) LocalUser {
	return LocalUser{
		ID:          u.UserID.String(),
		Email:       u.Email,
		DisplayName: DisplayName(u.Username, u.Email),
	}
}
