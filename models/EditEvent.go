package models

import (
	"fmt"
	"strings"
	"time"
)

// EditMethod is the direction of an amount change.
type EditMethod string

const (
	EditMethodIncrement EditMethod = "increment"
	EditMethodDecrement EditMethod = "decrement"
)

// ParseEditMethod accepts the method names case-insensitively.
func ParseEditMethod(value string) (EditMethod, error) {
	switch EditMethod(strings.ToLower(strings.TrimSpace(value))) {
	case EditMethodIncrement:
		return EditMethodIncrement, nil
	case EditMethodDecrement:
		return EditMethodDecrement, nil
	default:
		return "", fmt.Errorf("unknown edit method: %q", value)
	}
}

// Valid reports whether m is one of the known methods.
func (m EditMethod) Valid() bool {
	return m == EditMethodIncrement || m == EditMethodDecrement
}

// EditEvent records one amount adjustment applied to a FoodItem.
type EditEvent struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	FoodItemID string     `gorm:"type:varchar(36);index;not null" json:"-"`
	Date       time.Time  `gorm:"column:edited_at;not null" json:"date"`
	Amount     float64    `gorm:"not null" json:"amount"`
	Method     EditMethod `gorm:"type:varchar(16);not null" json:"method"`
}
