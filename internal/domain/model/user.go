package model

import "time"

// User represents a registered buyer account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Avatar       string
	CreatedAt    time.Time
}
