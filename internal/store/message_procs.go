package store

import (
	"context"
	"errors"
	"net/http"

	"parking-api/internal/gateway"
	"parking-api/internal/messages"
	"parking-api/internal/models"

	"gorm.io/gorm"
)

func (s *Store) registerMessageProcs() {
	s.register(messages.FnGetVisible, s.messageVisible)
	s.register(messages.FnGetList, s.messageList)
	s.register(messages.FnAdd, s.messageAdd)
	s.register(messages.FnUpdate, s.messageUpdate)
	s.register(messages.FnDelete, s.messageDelete)
}

func (s *Store) messageVisible(ctx context.Context, params []any) gateway.Result {
	username, okParam := argString(params, 0)
	if !okParam {
		return badParams()
	}
	if _, failed, found := s.findActor(ctx, username); !found {
		return failed
	}
	var list []models.Message
	if err := s.db.WithContext(ctx).Where("is_visible = ?", true).
		Order("created_at desc").Find(&list).Error; err != nil {
		return s.failDB(messages.FnGetVisible, err)
	}
	return ok(list)
}

func (s *Store) messageList(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	var list []models.Message
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return s.failDB(messages.FnGetList, err)
	}
	return ok(list)
}

func (s *Store) messageAdd(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	text, ok1 := argString(params, 1)
	isVisible, ok2 := argBool(params, 2)
	msgType, ok3 := argInt(params, 3)
	if !ok1 || !ok2 || !ok3 {
		return badParams()
	}
	m := models.Message{
		Message:   text,
		IsVisible: isVisible,
		Type:      msgType,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return s.failDB(messages.FnAdd, err)
	}
	return ok(gateway.IDResult{ID: m.ID})
}

func (s *Store) messageUpdate(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	id, ok1 := argInt(params, 1)
	text, ok2 := argString(params, 2)
	isVisible, ok3 := argBool(params, 3)
	msgType, ok4 := argInt(params, 4)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return badParams()
	}
	var m models.Message
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(messages.FnUpdate, err)
	}
	m.Message = text
	m.IsVisible = isVisible
	m.Type = msgType
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return s.failDB(messages.FnUpdate, err)
	}
	return ok(gateway.IDResult{ID: m.ID})
}

func (s *Store) messageDelete(ctx context.Context, params []any) gateway.Result {
	if _, failed, allowed := s.requireAdmin(ctx, params); !allowed {
		return failed
	}
	id, okParam := argInt(params, 1)
	if !okParam {
		return badParams()
	}
	var m models.Message
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, gateway.MsgNotFound)
		}
		return s.failDB(messages.FnDelete, err)
	}
	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return s.failDB(messages.FnDelete, err)
	}
	return ok(gateway.IDResult{ID: id})
}
