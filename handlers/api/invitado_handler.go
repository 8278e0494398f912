package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fpit.app/configs/configslog"
	"fpit.app/repositories"
	"fpit.app/services"
)

// InvitadoHandler expone el CRUD de invitados como API JSON.
type InvitadoHandler struct {
	service services.IInvitadoService
}

// NewInvitadoHandler crea el handler con el servicio inyectado.
func NewInvitadoHandler(service services.IInvitadoService) *InvitadoHandler {
	return &InvitadoHandler{service: service}
}

// ListInvitados GET /api/invitados
func (h *InvitadoHandler) ListInvitados(c *fiber.Ctx) error {
	invitados, err := h.service.ListarInvitados(c.UserContext())
	if err != nil {
		configslog.Log.Error("ListInvitados: error del servicio", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudieron obtener los invitados")
	}
	return c.JSON(invitados)
}

// GetInvitado GET /api/invitados/:id
func (h *InvitadoHandler) GetInvitado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errorJSON(c, fiber.StatusBadRequest, "ID de invitado no válido")
	}

	invitado, err := h.service.ObtenerInvitado(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrInvitadoNoEncontrado) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		configslog.Log.Error("GetInvitado: error del servicio", zap.Int("id", id), zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudo obtener el invitado")
	}
	return c.JSON(invitado)
}

// CreateInvitado POST /api/invitados
func (h *InvitadoHandler) CreateInvitado(c *fiber.Ctx) error {
	var input services.CrearInvitadoInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "cuerpo de la solicitud no válido")
	}

	invitado, err := h.service.CrearInvitado(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvitadoInvalido) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		configslog.Log.Error("CreateInvitado: error del servicio", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudo crear el invitado")
	}
	return c.Status(fiber.StatusCreated).JSON(invitado)
}

// UpdateInvitado PUT /api/invitados/:id
func (h *InvitadoHandler) UpdateInvitado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errorJSON(c, fiber.StatusBadRequest, "ID de invitado no válido")
	}

	var input services.ActualizarInvitadoInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "cuerpo de la solicitud no válido")
	}

	invitado, err := h.service.ActualizarInvitado(c.UserContext(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitadoNoEncontrado):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvitadoInvalido):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		configslog.Log.Error("UpdateInvitado: error del servicio", zap.Int("id", id), zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudo actualizar el invitado")
	}
	return c.JSON(invitado)
}

// DeleteInvitado DELETE /api/invitados/:id
func (h *InvitadoHandler) DeleteInvitado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errorJSON(c, fiber.StatusBadRequest, "ID de invitado no válido")
	}

	if err := h.service.EliminarInvitado(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, services.ErrInvitadoNoEncontrado) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		configslog.Log.Error("DeleteInvitado: error del servicio", zap.Int("id", id), zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudo eliminar el invitado")
	}
	return c.JSON(fiber.Map{"result": "deleted"})
}

// ListPorBandera GET /api/invitados/asesores_t1 y rutas hermanas.
func (h *InvitadoHandler) ListPorBandera(bandera string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		invitados, err := h.service.ListarPorBandera(c.UserContext(), bandera)
		if err != nil {
			configslog.Log.Error("ListPorBandera: error del servicio",
				zap.String("bandera", bandera), zap.Error(err))
			return errorJSON(c, fiber.StatusInternalServerError, "no se pudo filtrar el catálogo")
		}
		return c.JSON(invitados)
	}
}

// Estadisticas GET /api/estadisticas
func (h *InvitadoHandler) Estadisticas(c *fiber.Ctx) error {
	est, err := h.service.ObtenerEstadisticas(c.UserContext())
	if err != nil {
		configslog.Log.Error("Estadisticas: error del servicio", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "no se pudieron calcular las estadísticas")
	}
	return c.JSON(est)
}

// Banderas consultables desde rutas; reexportadas para el router.
const (
	BanderaAsesorT1        = repositories.BanderaAsesorT1
	BanderaAsesorT2        = repositories.BanderaAsesorT2
	BanderaJuradoProtocolo = repositories.BanderaJuradoProtocolo
	BanderaJuradoInforme   = repositories.BanderaJuradoInforme
	BanderaEspecial        = repositories.BanderaEspecial
)

func errorJSON(c *fiber.Ctx, status int, mensaje string) error {
	return c.Status(status).JSON(fiber.Map{"error": mensaje})
}
