package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fpit.app/configs/configslog"
	"fpit.app/services"
)

// ImportExportHandler intercambio masivo del catálogo en CSV.
type ImportExportHandler struct {
	service services.IInvitadoService
}

// NewImportExportHandler crea el handler con el servicio inyectado.
func NewImportExportHandler(service services.IInvitadoService) *ImportExportHandler {
	return &ImportExportHandler{service: service}
}

// PlantillaCSV GET /api/invitados/plantilla
func (h *ImportExportHandler) PlantillaCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.PlantillaCSV(&buf); err != nil {
		configslog.Log.Error("PlantillaCSV: no se pudo generar", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudo generar la plantilla")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="plantilla_invitados.csv"`)
	return c.Send(buf.Bytes())
}

// ExportarCSV GET /api/invitados/exportar
func (h *ImportExportHandler) ExportarCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportarCSV(c.UserContext(), &buf); err != nil {
		configslog.Log.Error("ExportarCSV: no se pudo exportar", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudo exportar el catálogo")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invitados.csv"`)
	return c.Send(buf.Bytes())
}

// ImportarCSV POST /api/invitados/importar (multipart, campo "archivo")
func (h *ImportExportHandler) ImportarCSV(c *fiber.Ctx) error {
	encabezado, err := c.FormFile("archivo")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "falta el archivo a importar")
	}
	archivo, err := encabezado.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "no se pudo abrir el archivo a importar")
	}
	defer archivo.Close()

	resultado, err := h.service.ImportarCSV(c.UserContext(), archivo)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"importados": resultado.Importados,
		"errores":    resultado.Errores,
	})
}
