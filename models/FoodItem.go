package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodItem is one tracked product in the pantry.
type FoodItem struct {
	ID            string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ApplicationID string      `gorm:"type:varchar(128);index;not null" json:"-"`
	Name          string      `gorm:"not null" json:"name"`
	FoodCode      int         `gorm:"index;not null" json:"foodCode"`
	AmountLasts   float64     `gorm:"not null;default:0" json:"amountLasts"`
	Edited        []EditEvent `gorm:"foreignKey:FoodItemID" json:"edited"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns the store identifier. Callers never choose it.
func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// History returns the edit history, never nil.
func (f FoodItem) History() []EditEvent {
	if f.Edited == nil {
		return []EditEvent{}
	}
	return f.Edited
}
