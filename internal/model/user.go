package model

// User is the identity handed to us by the identity provider.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type UserFilter struct {
	Username *string
}
