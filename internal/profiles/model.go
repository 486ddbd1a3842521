package profiles

import "time"

// Profile is the user's contact card, kept apart from authentication claims.
type Profile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Update carries the editable profile fields.
type Update struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}
