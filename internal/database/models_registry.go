package database

import "tsudoi/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Channel{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	}
}
