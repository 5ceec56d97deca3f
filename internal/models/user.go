package models

import (
	"gorm.io/gorm"
)

// Role represents the access level of a user
type Role int

const (
	RoleAdmin      Role = 0
	RolePlaceOwner Role = 1
	RoleCustomer   Role = 2
)

// User represents a user in the system
type User struct {
	ID          int    `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"unique;not null"`
	Password    string `json:"-" gorm:"not null"`
	Lastname    string `json:"lastname"`
	Firstname   string `json:"firstname"`
	Middlename  string `json:"middlename"`
	Description string `json:"description"`
	Flat        int    `json:"flat"`
	Phone       string `json:"phone"`
	CarNumber   string `json:"car_number" gorm:"column:car_number"`
	Role        Role   `json:"role" gorm:"not null"`
	IsBlocking  bool   `json:"is_blocking" gorm:"column:is_blocking"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// UserData is the authenticated-user view returned by login and cached per
// session. It carries no credentials and no admin-only fields.
type UserData struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Middlename  string `json:"middlename,omitempty"`
	Description string `json:"description,omitempty"`
	Flat        int    `json:"flat,omitempty"`
	Role        Role   `json:"role"`
}

// Data converts a stored user into its session view.
func (u *User) Data() UserData {
	return UserData{
		ID:          u.ID,
		Username:    u.Username,
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		Middlename:  u.Middlename,
		Description: u.Description,
		Flat:        u.Flat,
		Role:        u.Role,
	}
}

// UserListItem is the short user view shown in the user table.
type UserListItem struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Lastname   string `json:"lastname"`
	Firstname  string `json:"firstname"`
	Middlename string `json:"middlename"`
	Flat       int    `json:"flat"`
	Role       Role   `json:"role"`
	IsBlocking bool   `json:"is_blocking"`
}

// UserInfo is the full user view for the admin edit form, including the ids
// of places the user owns.
type UserInfo struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Lastname    string `json:"lastname"`
	Firstname   string `json:"firstname"`
	Middlename  string `json:"middlename"`
	Description string `json:"description"`
	Flat        int    `json:"flat"`
	Role        Role   `json:"role"`
	IsBlocking  bool   `json:"is_blocking"`
	Phone       string `json:"phone"`
	CarNumber   string `json:"car_number"`
	Places      []int  `json:"places"`
}
