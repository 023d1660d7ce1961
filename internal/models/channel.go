package models

import "time"

// ChannelType encodes both the read and the write policy of a channel.
// The set is closed; the policy package owns the decision table that maps
// a (channel type, role) pair to view/post permissions.
type ChannelType string

const (
	// ChannelTypeAllPostAllView is visible to everyone; everyone but trial
	// participants may post.
	ChannelTypeAllPostAllView ChannelType = "all_post_all_view"
	// ChannelTypeAdminOnlyAllView is visible to everyone; only staff may post.
	ChannelTypeAdminOnlyAllView ChannelType = "admin_only_all_view"
	// ChannelTypeInstructorsPostAllView is visible to everyone; only staff may post.
	ChannelTypeInstructorsPostAllView ChannelType = "instructors_post_all_view"
	// ChannelTypeAdminOnlyInstructorsView is visible and writable by staff only.
	ChannelTypeAdminOnlyInstructorsView ChannelType = "admin_only_instructors_view"
	// ChannelTypeClass1PostClass1View is visible and writable by staff and
	// Class1 members.
	ChannelTypeClass1PostClass1View ChannelType = "class1_post_class1_view"
)

// AllChannelTypes returns the closed channel-type enumeration.
func AllChannelTypes() []ChannelType {
	return []ChannelType{
		ChannelTypeAllPostAllView,
		ChannelTypeAdminOnlyAllView,
		ChannelTypeInstructorsPostAllView,
		ChannelTypeAdminOnlyInstructorsView,
		ChannelTypeClass1PostClass1View,
	}
}

// Valid reports whether t is one of the known channel types.
func (t ChannelType) Valid() bool {
	switch t {
	case ChannelTypeAllPostAllView, ChannelTypeAdminOnlyAllView,
		ChannelTypeInstructorsPostAllView, ChannelTypeAdminOnlyInstructorsView,
		ChannelTypeClass1PostClass1View:
		return true
	}
	return false
}

// Channel is a communication feed inside a category. Its ChannelType is the
// sole policy input besides the requester's role.
type Channel struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:120;not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	CategoryID   uint        `gorm:"not null;index" json:"category_id"`
	Category     *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ChannelType  ChannelType `gorm:"type:varchar(40);not null" json:"channel_type"`
	DisplayOrder int         `gorm:"not null;default:0;index" json:"display_order"`
	// PostCount is not persisted; computed at query time
	PostCount int64     `gorm:"->" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Channel) TableName() string {
	return "channels"
}
