// Package main provides role management utilities for Tsudoi.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"tsudoi/internal/config"
	"tsudoi/internal/database"
	"tsudoi/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>           - Make a user server admin")
		fmt.Println("  go run ./cmd/admin/main.go set-role <user_id> <role>   - Assign any role")
		fmt.Println("  go run ./cmd/admin/main.go list-staff                  - List admins and instructors")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go promote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleServerAdmin)

	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin/main.go set-role <user_id> <role>")
			os.Exit(1)
		}
		role := models.Role(os.Args[3])
		if !role.Valid() {
			fmt.Printf("Unknown role %q. Valid roles:\n", os.Args[3])
			for _, r := range models.AllRoles() {
				fmt.Printf("  %s\n", r)
			}
			os.Exit(1)
		}
		setRole(db, os.Args[2], role)

	case "list-staff":
		listStaff(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, userID string, role models.Role) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("User %s (%s) is now %s\n", user.Username, user.Email, role)
}

func listStaff(db *gorm.DB) {
	var users []models.User
	staffRoles := []models.Role{
		models.RoleServerAdmin,
		models.RoleECGInstructor,
		models.RoleJCGInstructor,
	}
	if err := db.Where("role IN ?", staffRoles).Order("id ASC").Find(&users).Error; err != nil {
		log.Fatalf("Failed to list staff: %v", err)
	}

	if len(users) == 0 {
		fmt.Println("No staff accounts found")
		return
	}
	for _, u := range users {
		fmt.Printf("%4d  %-30s %-40s %s\n", u.ID, u.Username, u.Email, u.Role)
	}
}
