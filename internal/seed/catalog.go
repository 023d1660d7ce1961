// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"errors"
	"fmt"

	"tsudoi/internal/models"

	"gorm.io/gorm"
)

// BuiltInChannel describes a channel created as part of the default catalog.
type BuiltInChannel struct {
	Name        string
	Description string
	Type        models.ChannelType
}

// BuiltInCategory describes a category created as part of the default catalog.
type BuiltInCategory struct {
	Name     string
	Channels []BuiltInChannel
}

// BuiltInCatalog is the default community layout for a fresh install.
var BuiltInCatalog = []BuiltInCategory{
	{
		Name: "はじめに",
		Channels: []BuiltInChannel{
			{Name: "お知らせ", Description: "運営からのお知らせ", Type: models.ChannelTypeAdminOnlyAllView},
			{Name: "ルール", Description: "コミュニティのルール", Type: models.ChannelTypeAdminOnlyAllView},
			{Name: "自己紹介", Description: "メンバーの自己紹介", Type: models.ChannelTypeAllPostAllView},
		},
	},
	{
		Name: "全体",
		Channels: []BuiltInChannel{
			{Name: "雑談", Description: "自由な雑談スペース", Type: models.ChannelTypeAllPostAllView},
			{Name: "質問", Description: "学習に関する質問", Type: models.ChannelTypeAllPostAllView},
			{Name: "今週のレッスン", Description: "講師によるレッスン投稿", Type: models.ChannelTypeInstructorsPostAllView},
		},
	},
	{
		Name: "Class1",
		Channels: []BuiltInChannel{
			{Name: "class1-連絡", Description: "Class1専用の連絡事項", Type: models.ChannelTypeClass1PostClass1View},
			{Name: "class1-課題", Description: "Class1の課題提出と相談", Type: models.ChannelTypeClass1PostClass1View},
		},
	},
	{
		Name: "運営",
		Channels: []BuiltInChannel{
			{Name: "講師ミーティング", Description: "講師と管理者の連絡", Type: models.ChannelTypeAdminOnlyInstructorsView},
		},
	},
}

// Catalog seeds the default categories and channels. It is idempotent:
// existing categories and channels are matched by name and left in place.
func Catalog(db *gorm.DB) error {
	for position, item := range BuiltInCatalog {
		position := position
		item := item
		err := db.Transaction(func(tx *gorm.DB) error {
			var category models.Category
			findErr := tx.Where("LOWER(name) = LOWER(?)", item.Name).First(&category).Error
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				category = models.Category{Name: item.Name, DisplayOrder: position}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			case findErr != nil:
				return findErr
			}

			for channelPosition, ch := range item.Channels {
				var existing models.Channel
				chErr := tx.Where("category_id = ? AND name = ?", category.ID, ch.Name).
					First(&existing).Error
				if chErr == nil {
					continue
				}
				if !errors.Is(chErr, gorm.ErrRecordNotFound) {
					return chErr
				}

				channel := models.Channel{
					Name:         ch.Name,
					Description:  ch.Description,
					CategoryID:   category.ID,
					ChannelType:  ch.Type,
					DisplayOrder: channelPosition,
				}
				if err := tx.Create(&channel).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed built-in category %s: %w", item.Name, err)
		}
	}
	return nil
}
