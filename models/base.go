package models

import "time"

// BaseModel campos comunes de todas las tablas. Los registros se
// eliminan de forma definitiva: no hay borrado lógico ni versionado.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
