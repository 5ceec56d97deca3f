package store

import (
	"context"
	"errors"
	"net/http"
	"time"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
	"parking-api/internal/places"

	"gorm.io/gorm"
)

func (s *Store) registerPlaceProcs() {
	s.register(places.FnGetAll, s.allPlaces)
	s.register(places.FnUserPlaces, s.userPlaces)
	s.register(places.FnFreePlaces, s.freePlaces)
	s.register(places.FnSetFree, s.setFreePlace)
	s.register(places.FnRespond, s.respondPlace)
	s.register(places.FnTakeFree, s.takeFreePlace)
	s.register(places.FnRelease, s.releaseFreePlace)
	s.register(places.FnCheckDates, s.checkFreePlaceDates)
}

// freeRecord assembles the pool entry view for one offered place.
func freeRecord(f models.FreePlace, place models.Place, owner, taker string) models.FreePlaceRecord {
	return models.FreePlaceRecord{
		PlaceID:       f.PlaceID,
		PlaceNumber:   place.Number,
		DateFrom:      f.DateFrom,
		DateTo:        f.DateTo,
		Status:        f.Status,
		TakerID:       f.TakerID,
		Username:      taker,
		TakerDateFrom: f.TakerDateFrom,
		TakerDateTo:   f.TakerDateTo,
		OwnerUsername: owner,
	}
}

// usernamesByID loads the logins for a set of user ids.
func (s *Store) usernamesByID(ctx context.Context, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var us []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&us).Error; err != nil {
		return nil, err
	}
	for _, u := range us {
		names[u.ID] = u.Username
	}
	return names, nil
}

func (s *Store) allPlaces(ctx context.Context, params []any) gateway.Result {
	username, okParam := argString(params, 0)
	if !okParam {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}
	if actor.Role != models.RoleAdmin {
		return fail(http.StatusForbidden, gateway.MsgForbidden)
	}
	var list []models.Place
	if err := s.db.WithContext(ctx).Order("number").Find(&list).Error; err != nil {
		return s.failDB(places.FnGetAll, err)
	}
	return ok(list)
}

func (s *Store) userPlaces(ctx context.Context, params []any) gateway.Result {
	username, okParam := argString(params, 0)
	if !okParam {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}

	var owned []models.Place
	if err := s.db.WithContext(ctx).Where("owner_id = ?", actor.ID).Order("number").Find(&owned).Error; err != nil {
		return s.failDB(places.FnUserPlaces, err)
	}

	view := make([]models.UserPlace, 0, len(owned))
	if len(owned) == 0 {
		return ok(view)
	}

	ids := make([]int, 0, len(owned))
	for _, p := range owned {
		ids = append(ids, p.ID)
	}
	var frees []models.FreePlace
	if err := s.db.WithContext(ctx).Where("place_id IN ?", ids).Find(&frees).Error; err != nil {
		return s.failDB(places.FnUserPlaces, err)
	}
	freeByPlace := make(map[int]models.FreePlace, len(frees))
	takerIDs := make([]int, 0, len(frees))
	for _, f := range frees {
		freeByPlace[f.PlaceID] = f
		if f.TakerID != nil {
			takerIDs = append(takerIDs, *f.TakerID)
		}
	}
	takers, err := s.usernamesByID(ctx, takerIDs)
	if err != nil {
		return s.failDB(places.FnUserPlaces, err)
	}

	for _, p := range owned {
		up := models.UserPlace{ID: p.ID, Number: p.Number}
		if f, offered := freeByPlace[p.ID]; offered {
			taker := ""
			if f.TakerID != nil {
				taker = takers[*f.TakerID]
			}
			rec := freeRecord(f, p, actor.Username, taker)
			up.Free = &rec
		}
		view = append(view, up)
	}
	return ok(view)
}

func (s *Store) freePlaces(ctx context.Context, params []any) gateway.Result {
	var frees []models.FreePlace
	if err := s.db.WithContext(ctx).Order("place_id").Find(&frees).Error; err != nil {
		return s.failDB(places.FnFreePlaces, err)
	}
	view := make([]models.FreePlaceRecord, 0, len(frees))
	if len(frees) == 0 {
		return ok(view)
	}

	placeIDs := make([]int, 0, len(frees))
	for _, f := range frees {
		placeIDs = append(placeIDs, f.PlaceID)
	}
	var pls []models.Place
	if err := s.db.WithContext(ctx).Where("id IN ?", placeIDs).Find(&pls).Error; err != nil {
		return s.failDB(places.FnFreePlaces, err)
	}
	placeByID := make(map[int]models.Place, len(pls))
	userIDs := make([]int, 0, len(pls)+len(frees))
	for _, p := range pls {
		placeByID[p.ID] = p
		userIDs = append(userIDs, p.OwnerID)
	}
	for _, f := range frees {
		if f.TakerID != nil {
			userIDs = append(userIDs, *f.TakerID)
		}
	}
	names, err := s.usernamesByID(ctx, userIDs)
	if err != nil {
		return s.failDB(places.FnFreePlaces, err)
	}

	for _, f := range frees {
		p := placeByID[f.PlaceID]
		taker := ""
		if f.TakerID != nil {
			taker = names[*f.TakerID]
		}
		view = append(view, freeRecord(f, p, names[p.OwnerID], taker))
	}
	return ok(view)
}

func (s *Store) setFreePlace(ctx context.Context, params []any) gateway.Result {
	username, ok0 := argString(params, 0)
	placeID, ok1 := argInt(params, 1)
	dateFrom, ok2 := argDate(params, 2)
	dateTo, ok3 := argDate(params, 3)
	if !ok0 || !ok1 || !ok2 || !ok3 {
		return badParams()
	}
	if !dateTo.After(dateFrom) {
		return fail(http.StatusBadRequest, "date_to must be after date_from")
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}

	var place models.Place
	if err := s.db.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(places.FnSetFree, err)
	}
	if place.OwnerID != actor.ID {
		return fail(http.StatusForbidden, gateway.MsgForbidden)
	}

	var existing models.FreePlace
	err := s.db.WithContext(ctx).Where("place_id = ?", placeID).First(&existing).Error
	if err == nil {
		return fail(http.StatusConflict, gateway.MsgFreePlace)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.failDB(places.FnSetFree, err)
	}

	free := models.FreePlace{
		PlaceID:  placeID,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Status:   models.StatusFree,
	}
	if err := s.db.WithContext(ctx).Create(&free).Error; err != nil {
		return s.failDB(places.FnSetFree, err)
	}
	return ok(gateway.IDResult{ID: placeID})
}

func (s *Store) respondPlace(ctx context.Context, params []any) gateway.Result {
	username, ok0 := argString(params, 0)
	placeID, ok1 := argInt(params, 1)
	if !ok0 || !ok1 {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}

	var place models.Place
	if err := s.db.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(places.FnRespond, err)
	}
	if place.OwnerID != actor.ID {
		return fail(http.StatusForbidden, gateway.MsgForbidden)
	}

	var free models.FreePlace
	if err := s.db.WithContext(ctx).Where("place_id = ?", placeID).First(&free).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(places.FnRespond, err)
	}
	if free.Status == models.StatusBusy {
		return fail(http.StatusConflict, gateway.MsgAlreadyTaken)
	}
	if err := s.db.WithContext(ctx).Delete(&free).Error; err != nil {
		return s.failDB(places.FnRespond, err)
	}
	return ok(gateway.IDResult{ID: placeID})
}

func (s *Store) takeFreePlace(ctx context.Context, params []any) gateway.Result {
	username, ok0 := argString(params, 0)
	placeID, ok1 := argInt(params, 1)
	dateTo, ok2 := argDate(params, 2)
	if !ok0 || !ok1 || !ok2 {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}

	var free models.FreePlace
	if err := s.db.WithContext(ctx).Where("place_id = ?", placeID).First(&free).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(places.FnTakeFree, err)
	}
	if free.Status == models.StatusBusy {
		return fail(http.StatusConflict, gateway.MsgAlreadyTaken)
	}
	now := time.Now()
	if dateTo.Before(now) || dateTo.After(free.DateTo) {
		return fail(http.StatusBadRequest, "date_to outside the offered window")
	}

	updates := map[string]any{
		"status":          models.StatusBusy,
		"taker_id":        actor.ID,
		"taker_date_from": now,
		"taker_date_to":   dateTo,
	}
	if err := s.db.WithContext(ctx).Model(&free).Updates(updates).Error; err != nil {
		return s.failDB(places.FnTakeFree, err)
	}
	return ok(gateway.IDResult{ID: placeID})
}

func (s *Store) releaseFreePlace(ctx context.Context, params []any) gateway.Result {
	username, ok0 := argString(params, 0)
	placeID, ok1 := argInt(params, 1)
	if !ok0 || !ok1 {
		return badParams()
	}
	actor, failed, found := s.findActor(ctx, username)
	if !found {
		return failed
	}

	var free models.FreePlace
	if err := s.db.WithContext(ctx).Where("place_id = ?", placeID).First(&free).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(places.FnRelease, err)
	}
	if free.Status != models.StatusBusy || free.TakerID == nil || *free.TakerID != actor.ID {
		return fail(http.StatusConflict, gateway.MsgCantRelease)
	}

	updates := map[string]any{
		"status":          models.StatusFree,
		"taker_id":        nil,
		"taker_date_from": nil,
		"taker_date_to":   nil,
	}
	if err := s.db.WithContext(ctx).Model(&free).Updates(updates).Error; err != nil {
		return s.failDB(places.FnRelease, err)
	}
	return ok(gateway.IDResult{ID: placeID})
}

// checkFreePlaceDates expires lapsed pool records: offers whose window has
// ended are withdrawn, and claims past their end date revert to free.
// Returns the ids of every place whose record changed.
func (s *Store) checkFreePlaceDates(ctx context.Context, params []any) gateway.Result {
	now := time.Now()
	changed := []int{}

	var lapsed []models.FreePlace
	if err := s.db.WithContext(ctx).Where("date_to < ?", now).Find(&lapsed).Error; err != nil {
		return s.failDB(places.FnCheckDates, err)
	}
	for _, f := range lapsed {
		if err := s.db.WithContext(ctx).Delete(&models.FreePlace{}, f.ID).Error; err != nil {
			return s.failDB(places.FnCheckDates, err)
		}
		changed = append(changed, f.PlaceID)
	}

	var overdue []models.FreePlace
	if err := s.db.WithContext(ctx).
		Where("status = ? AND taker_date_to < ?", models.StatusBusy, now).
		Find(&overdue).Error; err != nil {
		return s.failDB(places.FnCheckDates, err)
	}
	updates := map[string]any{
		"status":          models.StatusFree,
		"taker_id":        nil,
		"taker_date_from": nil,
		"taker_date_to":   nil,
	}
	for _, f := range overdue {
		if err := s.db.WithContext(ctx).Model(&f).Updates(updates).Error; err != nil {
			return s.failDB(places.FnCheckDates, err)
		}
		changed = append(changed, f.PlaceID)
	}
	return ok(changed)
}
