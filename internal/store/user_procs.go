package store

import (
	"context"
	"errors"
	"net/http"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
	"parking-api/internal/users"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (s *Store) registerAuthProcs() {
	s.register(users.FnLogin, s.login)
	s.register(users.FnGetInfo, s.userGetInfo)
}

func (s *Store) registerUserProcs() {
	s.register(users.FnGetList, s.userList)
	s.register(users.FnAdd, s.userAdd)
	s.register(users.FnGet, s.userGet)
	s.register(users.FnUpdate, s.userUpdate)
	s.register(users.FnDelete, s.userDelete)
	s.register(users.FnPrivateUpdate, s.userPrivateUpdate)
}

func (s *Store) login(ctx context.Context, params []any) gateway.Result {
	username, ok0 := argString(params, 0)
	password, ok1 := argString(params, 1)
	if !ok0 || !ok1 {
		return badParams()
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusUnauthorized, gateway.MsgUnauthorized)
		}
		return s.failDB(users.FnLogin, err)
	}
	if u.IsBlocking {
		return fail(http.StatusUnauthorized, gateway.MsgUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return fail(http.StatusUnauthorized, gateway.MsgUnauthorized)
	}
	return ok(u.Data())
}

func (s *Store) userGetInfo(ctx context.Context, params []any) gateway.Result {
	username, okParam := argString(params, 0)
	if !okParam {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}
	return ok(actor.Data())
}

// requireAdmin resolves the actor and checks the admin role.
func (s *Store) requireAdmin(ctx context.Context, params []any) (*models.User, gateway.Result, bool) {
	username, okParam := argString(params, 0)
	if !okParam {
		return nil, badParams(), false
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return nil, failed, false
	}
	if actor.Role != models.RoleAdmin {
		return nil, fail(http.StatusForbidden, gateway.MsgForbidden), false
	}
	return actor, gateway.Result{}, true
}

func (s *Store) userList(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	var us []models.User
	if err := s.db.WithContext(ctx).Order("lastname, firstname").Find(&us).Error; err != nil {
		return s.failDB(users.FnGetList, err)
	}
	list := make([]models.UserListItem, 0, len(us))
	for _, u := range us {
		list = append(list, models.UserListItem{
			ID:         u.ID,
			Username:   u.Username,
			Lastname:   u.Lastname,
			Firstname:  u.Firstname,
			Middlename: u.Middlename,
			Flat:       u.Flat,
			Role:       u.Role,
			IsBlocking: u.IsBlocking,
		})
	}
	return ok(list)
}

// assignPlaces makes ids the exact set of places owned by userID.
func (s *Store) assignPlaces(ctx context.Context, userID int, ids []int) error {
	if err := s.db.WithContext(ctx).Model(&models.Place{}).
		Where("owner_id = ?", userID).Update("owner_id", 0).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Place{}).
		Where("id IN ?", ids).Update("owner_id", userID).Error
}

func (s *Store) userAdd(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	username, ok1 := argString(params, 1)
	password, ok2 := argString(params, 2)
	lastname, ok3 := argString(params, 3)
	firstname, ok4 := argString(params, 4)
	middlename, ok5 := argString(params, 5)
	description, ok6 := argString(params, 6)
	flat, ok7 := argInt(params, 7)
	role, ok8 := argInt(params, 8)
	isBlocking, ok9 := argBool(params, 9)
	placeIDs, ok10 := argIntSlice(params, 10)
	phone, ok11 := argString(params, 11)
	carNumber, ok12 := argString(params, 12)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 || !ok8 || !ok9 || !ok10 || !ok11 || !ok12 {
		return badParams()
	}
	if password == "" {
		return fail(http.StatusBadRequest, "password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return s.failDB(users.FnAdd, err)
	}
	u := models.User{
		Username:    username,
		Password:    string(hash),
		Lastname:    lastname,
		Firstname:   firstname,
		Middlename:  middlename,
		Description: description,
		Flat:        flat,
		Role:        models.Role(role),
		IsBlocking:  isBlocking,
		Phone:       phone,
		CarNumber:   carNumber,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(http.StatusConflict, gateway.MsgUserExists)
		}
		return s.failDB(users.FnAdd, err)
	}
	if err := s.assignPlaces(ctx, u.ID, placeIDs); err != nil {
		return s.failDB(users.FnAdd, err)
	}
	return ok(gateway.IDResult{ID: u.ID})
}

func (s *Store) userGet(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	id, okParam := argInt(params, 1)
	if !okParam {
		return badParams()
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(users.FnGet, err)
	}
	var owned []models.Place
	if err := s.db.WithContext(ctx).Where("owner_id = ?", u.ID).Order("number").Find(&owned).Error; err != nil {
		return s.failDB(users.FnGet, err)
	}
	placeIDs := make([]int, 0, len(owned))
	for _, p := range owned {
		placeIDs = append(placeIDs, p.ID)
	}
	return ok(models.UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Lastname:    u.Lastname,
		Firstname:   u.Firstname,
		Middlename:  u.Middlename,
		Description: u.Description,
		Flat:        u.Flat,
		Role:        u.Role,
		IsBlocking:  u.IsBlocking,
		Phone:       u.Phone,
		CarNumber:   u.CarNumber,
		Places:      placeIDs,
	})
}

func (s *Store) userUpdate(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	id, ok1 := argInt(params, 1)
	password, ok2 := argString(params, 2)
	lastname, ok3 := argString(params, 3)
	firstname, ok4 := argString(params, 4)
	middlename, ok5 := argString(params, 5)
	description, ok6 := argString(params, 6)
	flat, ok7 := argInt(params, 7)
	role, ok8 := argInt(params, 8)
	isBlocking, ok9 := argBool(params, 9)
	placeIDs, ok10 := argIntSlice(params, 10)
	phone, ok11 := argString(params, 11)
	carNumber, ok12 := argString(params, 12)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 || !ok8 || !ok9 || !ok10 || !ok11 || !ok12 {
		return badParams()
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(users.FnUpdate, err)
	}
	u.Lastname = lastname
	u.Firstname = firstname
	u.Middlename = middlename
	u.Description = description
	u.Flat = flat
	u.Role = models.Role(role)
	u.IsBlocking = isBlocking
	u.Phone = phone
	u.CarNumber = carNumber
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return s.failDB(users.FnUpdate, err)
		}
		u.Password = string(hash)
	}
	if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
		return s.failDB(users.FnUpdate, err)
	}
	if err := s.assignPlaces(ctx, u.ID, placeIDs); err != nil {
		return s.failDB(users.FnUpdate, err)
	}
	return ok(gateway.IDResult{ID: u.ID})
}

func (s *Store) userDelete(ctx context.Context, params []any) gateway.Result {
	actor, failed, allowed := s.requireAdmin(ctx, params)
	if !allowed {
		return failed
	}
	id, okParam := argInt(params, 1)
	if !okParam {
		return badParams()
	}
	if id == actor.ID {
		return fail(http.StatusBadRequest, "cannot delete yourself")
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(users.FnDelete, err)
	}
	if err := s.assignPlaces(ctx, u.ID, nil); err != nil {
		return s.failDB(users.FnDelete, err)
	}
	// Hard delete: the username index is unique, and a soft-deleted row
	// would keep the login occupied forever.
	if err := s.db.WithContext(ctx).Unscoped().Delete(&u).Error; err != nil {
		return s.failDB(users.FnDelete, err)
	}
	return ok(gateway.IDResult{ID: id})
}

func (s *Store) userPrivateUpdate(ctx context.Context, params []any) gateway.Result {
	username, ok0 := argString(params, 0)
	id, ok1 := argInt(params, 1)
	password, ok2 := argString(params, 2)
	lastname, ok3 := argString(params, 3)
	firstname, ok4 := argString(params, 4)
	middlename, ok5 := argString(params, 5)
	phone, ok6 := argString(params, 6)
	if !ok0 || !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}
	// Users may only edit their own profile here.
	if actor.ID != id {
		return fail(http.StatusForbidden, gateway.MsgForbidden)
	}
	actor.Lastname = lastname
	actor.Firstname = firstname
	actor.Middlename = middlename
	actor.Phone = phone
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return s.failDB(users.FnPrivateUpdate, err)
		}
		actor.Password = string(hash)
	}
	if err := s.db.WithContext(ctx).Save(actor).Error; err != nil {
		return s.failDB(users.FnPrivateUpdate, err)
	}
	return ok(gateway.IDResult{ID: id})
}
