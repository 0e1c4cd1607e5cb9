package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	DisplayName   *string    `json:"display_name,omitempty"`
	Phone         *string    `json:"phone,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// AccountSummary is what login and profile endpoints return. The password
// hash never crosses this boundary.
type AccountSummary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

func (a *Account) Summary() *AccountSummary {
	return &AccountSummary{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		DisplayName: a.DisplayName,
		Phone:       a.Phone,
	}
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ProfileUpdate holds the mutable profile attributes. Only `user` accounts
// edit their own profile; role and username are not mutable here.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}
