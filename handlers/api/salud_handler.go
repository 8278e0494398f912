package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SaludHandler verificación de disponibilidad del backend. El shell de
// escritorio la consulta antes de mostrar la interfaz.
type SaludHandler struct {
	db *gorm.DB
}

// NewSaludHandler crea el handler con la conexión inyectada.
func NewSaludHandler(db *gorm.DB) *SaludHandler {
	return &SaludHandler{db: db}
}

// Salud GET /api/health
func (h *SaludHandler) Salud(c *fiber.Ctx) error {
	estadoDB := "connected"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		estadoDB = "error"
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"message":  "El backend está funcionando correctamente",
		"database": estadoDB,
	})
}
