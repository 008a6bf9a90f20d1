package model

import "time"

// User is a staff account that can sign in to the tracker.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	LastName     string    `gorm:"size:100;not null" json:"lastName"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"not null" json:"role"`
	IsActive     bool      `gorm:"not null" json:"isActive"`
	PhoneNumber  string    `gorm:"size:50" json:"phoneNumber"`
	Department   string    `gorm:"size:100" json:"department"`
	JobTitle     string    `gorm:"size:100" json:"jobTitle"`
	GoogleID     *string   `gorm:"size:255;uniqueIndex" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserInfo is the public part of a user returned by the auth endpoints.
type UserInfo struct {
	ID         uint     `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	IsActive   bool     `json:"isActive"`
	Department string   `json:"department"`
	JobTitle   string   `json:"jobTitle"`
}

// Info projects u into its public form.
func (u User) Info() UserInfo {
	return UserInfo{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		Department: u.Department,
		JobTitle:   u.JobTitle,
	}
}

// AuthResponse is returned by login, register and Google sign in.
type AuthResponse struct {
	Token     string    `json:"token"`
	User      UserInfo  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GoogleUserInfo struct holds the user information retrieved from Google OAuth
type GoogleUserInfo struct {
	GID           string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}
