package models

import (
	"gorm.io/gorm"
)

// Location is a campus venue an event can be scheduled at.
type Location struct {
	gorm.Model
	Name     string `json:"name"`
	Building string `json:"building"`
	Room     string `json:"room"`
	Capacity int    `json:"capacity"`
}
