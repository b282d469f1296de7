package model

import "time"

// StringModel maps the strings table. Rows are insert-only.
type StringModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName overrides the default GORM table name.
func (StringModel) TableName() string {
	return "strings"
}
