package users

import (
	"context"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
)

// Database functions for authentication and user management.
const (
	FnLogin         = "auth.e_login"
	FnGetInfo       = "auth.e_user_getinfo"
	FnGetList       = "auth.e_user_get_list"
	FnAdd           = "auth.e_user_add"
	FnGet           = "auth.e_user_get"
	FnUpdate        = "auth.e_user_update"
	FnDelete        = "auth.e_user_delete"
	FnPrivateUpdate = "auth.e_user_private_update"
)

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SaveParams carries the full user form for add and update.
type SaveParams struct {
	ID          int         `json:"id"`
	Username    string      `json:"username" binding:"required"`
	Password    string      `json:"password"`
	Lastname    string      `json:"lastname" binding:"required"`
	Firstname   string      `json:"firstname" binding:"required"`
	Middlename  string      `json:"middlename"`
	Description string      `json:"description"`
	Flat        int         `json:"flat"`
	Role        models.Role `json:"role"`
	IsBlocking  bool        `json:"is_blocking"`
	Places      []int       `json:"places"`
	Phone       string      `json:"phone"`
	CarNumber   string      `json:"car_number"`
}

// PrivateParams is the self-service profile update payload.
type PrivateParams struct {
	ID         int    `json:"id"`
	Password   string `json:"password"`
	Lastname   string `json:"lastname" binding:"required"`
	Firstname  string `json:"firstname" binding:"required"`
	Middlename string `json:"middlename"`
	Phone      string `json:"phone"`
}

// Login authenticates the credentials and returns the session view.
func Login(ctx context.Context, g gateway.Gateway, cred Credentials) (models.UserData, error) {
	return gateway.Execute[models.UserData](ctx, g, FnLogin, cred.Username, cred.Password)
}

// GetInfo returns the session view of an authenticated user.
func GetInfo(ctx context.Context, g gateway.Gateway, username string) (models.UserData, error) {
	return gateway.Execute[models.UserData](ctx, g, FnGetInfo, username)
}

// List returns the user table. Admin only.
func List(ctx context.Context, g gateway.Gateway, username string) ([]models.UserListItem, error) {
	return gateway.Execute[[]models.UserListItem](ctx, g, FnGetList, username)
}

// Add creates a user. Admin only.
func Add(ctx context.Context, g gateway.Gateway, username string, p SaveParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnAdd,
		username, p.Username, p.Password, p.Lastname, p.Firstname, p.Middlename,
		p.Description, p.Flat, int(p.Role), p.IsBlocking, p.Places, p.Phone, p.CarNumber)
}

// Get returns the full user view by id. Admin only.
func Get(ctx context.Context, g gateway.Gateway, username string, id int) (models.UserInfo, error) {
	return gateway.Execute[models.UserInfo](ctx, g, FnGet, username, id)
}

// Update rewrites a user. Admin only. An empty password keeps the current one.
func Update(ctx context.Context, g gateway.Gateway, username string, p SaveParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnUpdate,
		username, p.ID, p.Password, p.Lastname, p.Firstname, p.Middlename,
		p.Description, p.Flat, int(p.Role), p.IsBlocking, p.Places, p.Phone, p.CarNumber)
}

// Delete removes a user by id. Admin only.
func Delete(ctx context.Context, g gateway.Gateway, username string, id int) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnDelete, username, id)
}

// PrivateUpdate lets a user edit their own profile basics.
func PrivateUpdate(ctx context.Context, g gateway.Gateway, username string, p PrivateParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnPrivateUpdate,
		username, p.ID, p.Password, p.Lastname, p.Firstname, p.Middlename, p.Phone)
}
