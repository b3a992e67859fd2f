package users

import "time"

// User is the internal record of an external principal. Created once per
// external id on first sight and never deleted here.
type User struct {
	ID         int       `json:"id"`
	ExternalID string    `json:"externalId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type NewUser struct {
	ExternalID string
	Name       string
	Email      string
}
