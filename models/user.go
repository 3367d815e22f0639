package models

import (
	"strings"

	"gorm.io/datatypes"
)

// Profile is the user/admin snapshot persisted under "user" / "adminData".
type Profile struct {
	ID          uint   `json:"id"`
	Username    string `json:"username,omitempty"`
	Name        string `json:"name,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (p Profile) DisplayName() string {
	switch {
	case strings.TrimSpace(p.FullName) != "":
		return p.FullName
	case strings.TrimSpace(p.Name) != "":
		return p.Name
	default:
		return p.Username
	}
}

// SplitName splits the display name into first name and the rest, the way
// the booking form prefills its two name fields.
func (p Profile) SplitName() (string, string) {
	parts := strings.Fields(p.DisplayName())
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is what the caller fills in; RegisterRequest is what goes on
// the wire.
type Registration struct {
	Username    string
	Name        string
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// Request maps a Registration onto the backend field names.
func (r Registration) Request() RegisterRequest {
	username := r.Username
	if username == "" {
		username = r.Name
	}
	fullName := r.FullName
	if fullName == "" {
		fullName = r.Name
	}
	return RegisterRequest{
		Username:    username,
		Email:       r.Email,
		Password:    r.Password,
		FullName:    fullName,
		PhoneNumber: r.PhoneNumber,
	}
}

// ProfileUpdate is the PUT /profile/update payload; nil fields are omitted.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// ProfileExtras holds profile fields the backend does not model. Persisted
// as JSON under "additionalProfileData".
type ProfileExtras = datatypes.JSONMap

const (
	ExtraAddress     = "address"
	ExtraCity        = "city"
	ExtraZipCode     = "zipCode"
	ExtraDateOfBirth = "dateOfBirth"
	ExtraGender      = "gender"
)

// ExtraString returns the extra as a string, "" when absent.
func ExtraString(e ProfileExtras, key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// ImageUpload is the POST /upload/image response.
type ImageUpload struct {
	ImageURL string `json:"image_url"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
}
