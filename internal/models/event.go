package models

import (
	"gorm.io/gorm"
)

// Event groups professionals under a shared booking context. Professionals
// join an event by presenting its password during setup.
type Event struct {
	BaseModel
	Name                 string         `json:"name"`
	ProfessionalPassword string         `json:"-"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
