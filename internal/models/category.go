package models

import "time"

// Category is an ordered, purely organizational container of channels.
// Names are unique case-insensitively; the database carries a unique index
// on lower(name) so the application-level pre-check cannot race.
// A category that still owns channels cannot be deleted.
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	DisplayOrder int       `gorm:"not null;default:0;index" json:"display_order"`
	IsCollapsed  bool      `gorm:"not null;default:false" json:"is_collapsed"`
	Channels     []Channel `gorm:"foreignKey:CategoryID" json:"channels"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}
