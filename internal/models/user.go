// Package models contains data models for the library service.
package models

import "time"

// User types accepted at login.
const (
	UserTypeUser  = "user"
	UserTypeAdmin = "admin"
)

// User represents a registered library member.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"firstName" gorm:"not null"`
	LastName     string    `json:"lastName" gorm:"not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postalCode"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Admin represents a library administrator. Admins live in their own table
// and are never created through the HTTP API.
type Admin struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"firstName" gorm:"not null"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName returns the database table name for the Admin model.
func (Admin) TableName() string {
	return "admins"
}

// Account is the part of a User or Admin that login needs.
type Account struct {
	ID           int64
	FirstName    string
	Email        string
	PasswordHash string
}
