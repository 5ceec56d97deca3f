package models

import (
	"time"

	"gorm.io/gorm"
)

// PlaceStatus represents the state of a place offered to the free pool
type PlaceStatus int

const (
	StatusFree PlaceStatus = 0
	StatusBusy PlaceStatus = 1
)

// Place represents a parking place
type Place struct {
	ID      int `json:"id" gorm:"primaryKey"`
	Number  int `json:"number" gorm:"unique;not null"`
	OwnerID int `json:"-" gorm:"column:owner_id;index"`
	gorm.Model
}

// TableName specifies the table name for Place Model
func (Place) TableName() string {
	return "places"
}

// FreePlace represents a place currently offered to the shared pool.
// No soft delete here: recalling a place removes the row for good.
type FreePlace struct {
	ID            int         `gorm:"primaryKey"`
	PlaceID       int         `gorm:"column:place_id;uniqueIndex;not null"`
	DateFrom      time.Time   `gorm:"column:date_from"`
	DateTo        time.Time   `gorm:"column:date_to"`
	Status        PlaceStatus `gorm:"not null;default:0"`
	TakerID       *int        `gorm:"column:taker_id"`
	TakerDateFrom *time.Time  `gorm:"column:taker_date_from"`
	TakerDateTo   *time.Time  `gorm:"column:taker_date_to"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for FreePlace Model
func (FreePlace) TableName() string {
	return "free_places"
}

// FreePlaceRecord is the pool entry view pushed to free-place stream
// subscribers. Username is the claimant's login when the place is taken;
// subscribers see entries that are free plus entries they claimed.
type FreePlaceRecord struct {
	PlaceID       int         `json:"place_id"`
	PlaceNumber   int         `json:"number"`
	DateFrom      time.Time   `json:"date_from"`
	DateTo        time.Time   `json:"date_to"`
	Status        PlaceStatus `json:"status"`
	TakerID       *int        `json:"taker_id,omitempty"`
	Username      string      `json:"username,omitempty"`
	TakerDateFrom *time.Time  `json:"taker_date_from,omitempty"`
	TakerDateTo   *time.Time  `json:"taker_date_to,omitempty"`
	OwnerUsername string      `json:"owner"`
}

// UserPlace is the view of a place from its owner's perspective.
type UserPlace struct {
	ID     int              `json:"id"`
	Number int              `json:"number"`
	Free   *FreePlaceRecord `json:"free,omitempty"`
}
