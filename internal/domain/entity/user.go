package entity

import "time"

// User is the authenticated account as returned by the signin/signup
// endpoints and cached on-device for session restore.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile is the editable profile record. It is always reloaded from the
// backend and never persisted on-device.
type UserProfile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Phone      string     `json:"phone"`
	AvatarURL  string     `json:"avatarUrl,omitempty"`
	BirthDate  *time.Time `json:"birthDate,omitempty"`
	BonusScore int        `json:"bonusScore"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// FullName joins first and last name, tolerating either being empty.
func (p UserProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
