package model

import "time"

// Profile holds the checkout-persisted user data: address and discord handle.
// Both are written as soon as the user leaves the matching checkout step.
type Profile struct {
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	Address   *Address   `json:"address,omitempty"`
	Discord   string     `json:"discord,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
