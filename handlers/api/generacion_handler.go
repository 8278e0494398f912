package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fpit.app/configs/configslog"
	"fpit.app/models"
	"fpit.app/services"
)

// GeneracionHandler carga de archivos base y generación de dossiers.
type GeneracionHandler struct {
	staging    services.IStagingService
	generacion services.IGeneracionService
}

// NewGeneracionHandler crea el handler con los servicios inyectados.
func NewGeneracionHandler(staging services.IStagingService, generacion services.IGeneracionService) *GeneracionHandler {
	return &GeneracionHandler{staging: staging, generacion: generacion}
}

// solicitudGeneracion cuerpo JSON de las rutas de generación: el
// periodo y los metadatos del evento en un solo objeto plano.
type solicitudGeneracion struct {
	models.PeriodoEvento
	models.DatosEvento
}

// CargarArchivos POST /api/upload-files
// Recibe los tres archivos base en un multipart y los deja preparados.
func (h *GeneracionHandler) CargarArchivos(c *fiber.Ctx) error {
	abrir := func(campo string) *services.ArchivoSubido {
		encabezado, err := c.FormFile(campo)
		if err != nil {
			return nil
		}
		archivo, err := encabezado.Open()
		if err != nil {
			return nil
		}
		// El cuerpo multipart vive hasta que termina el handler; el
		// servicio consume el contenido dentro de Stage.
		return &services.ArchivoSubido{Nombre: encabezado.Filename, Contenido: archivo}
	}
	cerrar := func(a *services.ArchivoSubido) {
		if a == nil {
			return
		}
		if f, ok := a.Contenido.(multipart.File); ok {
			_ = f.Close()
		}
	}

	plantilla := abrir(services.CampoPlantilla)
	convocatoria := abrir(services.CampoConvocatoria)
	cronograma := abrir(services.CampoCronograma)
	defer cerrar(plantilla)
	defer cerrar(convocatoria)
	defer cerrar(cronograma)

	archivos, err := h.staging.Stage(c.UserContext(), plantilla, convocatoria, cronograma)
	if err != nil {
		var faltantes *services.MissingAssetsError
		if errors.As(err, &faltantes) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":   false,
				"error":     faltantes.Error(),
				"faltantes": faltantes.Faltantes,
			})
		}
		configslog.Log.Error("CargarArchivos: carga fallida", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "no se pudieron guardar los archivos base",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"files":   archivos,
	})
}

// GenerarTodas POST /api/generate-all-invitations
func (h *GeneracionHandler) GenerarTodas(c *fiber.Ctx) error {
	var solicitud solicitudGeneracion
	if err := c.BodyParser(&solicitud); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "cuerpo de la solicitud no válido")
	}

	resultado, err := h.generacion.GenerarTodas(c.UserContext(), solicitud.PeriodoEvento, solicitud.DatosEvento)
	return h.responder(c, resultado, err)
}

// GenerarIndividual POST /api/generate-invitation/:id
func (h *GeneracionHandler) GenerarIndividual(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return errorJSON(c, fiber.StatusBadRequest, "ID de invitado no válido")
	}

	var solicitud solicitudGeneracion
	if err := c.BodyParser(&solicitud); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "cuerpo de la solicitud no válido")
	}

	resultado, err := h.generacion.GenerarIndividual(c.UserContext(), uint(id), solicitud.PeriodoEvento, solicitud.DatosEvento)
	return h.responder(c, resultado, err)
}

func (h *GeneracionHandler) responder(c *fiber.Ctx, resultado *services.ResultadoGeneracion, err error) error {
	if err != nil {
		// Errores de precondición: el usuario corrige y reintenta, los
		// archivos base permanecen cargados.
		var precondicion services.GeneracionServiceError
		if errors.As(err, &precondicion) && precondicion != services.ErrSinCatalogo {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, services.ErrInvitadoNoEncontrado) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		configslog.Log.Error("Generación fallida", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	// Corrida terminada (aun con errores parciales): los archivos base
	// ya cumplieron su propósito.
	if err := h.staging.Reset(); err != nil {
		configslog.Log.Warn("No se pudieron retirar los archivos base tras la corrida", zap.Error(err))
	}

	errores := resultado.Errores
	if errores == nil {
		errores = []services.ErrorInvitado{}
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"message":         fmt.Sprintf("Se generaron %d invitaciones", resultado.Generados),
		"generated_count": resultado.Generados,
		"output_folder":   resultado.CarpetaSalida,
		"errors":          errores,
	})
}
