package models

import (
	"time"

	"github.com/calderwood/conreg-backend/pkg/enums"
)

// Convention represents a single event year that offerings and orders hang off.
// The active window decides which convention is current; registration closes
// at RegCloseTime.
type Convention struct {
	ID            int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string         `gorm:"column:name;not null"`
	PerennialName string         `gorm:"column:perennial_name;not null"`
	Currency      enums.Currency `gorm:"column:currency;not null;default:'USD'"`
	StartDate     *time.Time     `gorm:"column:start_date"`
	EndDate       *time.Time     `gorm:"column:end_date"`
	ActiveFrom    time.Time      `gorm:"column:active_from;not null"`
	ActiveTo      time.Time      `gorm:"column:active_to;not null"`
	RegCloseTime  *time.Time     `gorm:"column:reg_close_time"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the convention's active window covers t.
func (c Convention) ActiveAt(t time.Time) bool {
	return !t.Before(c.ActiveFrom) && t.Before(c.ActiveTo)
}

// RegClosedAt reports whether registration has closed as of t.
func (c Convention) RegClosedAt(t time.Time) bool {
	return c.RegCloseTime != nil && !t.Before(*c.RegCloseTime)
}
