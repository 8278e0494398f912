package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	api_handlers "fpit.app/handlers/api"
	"fpit.app/services"
)

// registerAPIRoutes registra el API JSON bajo /api.
func registerAPIRoutes(app *fiber.App, db *gorm.DB, invitadoService services.IInvitadoService, staging services.IStagingService, generacionService services.IGeneracionService) {
	invitadoHandler := api_handlers.NewInvitadoHandler(invitadoService)
	importExportHandler := api_handlers.NewImportExportHandler(invitadoService)
	generacionHandler := api_handlers.NewGeneracionHandler(staging, generacionService)
	saludHandler := api_handlers.NewSaludHandler(db)

	api := app.Group("/api")

	api.Get("/health", saludHandler.Salud)
	api.Get("/estadisticas", invitadoHandler.Estadisticas)

	// Las rutas con segmento fijo van antes que /invitados/:id para que
	// el router no las capture como un ID.
	api.Get("/invitados/plantilla", importExportHandler.PlantillaCSV)
	api.Get("/invitados/exportar", importExportHandler.ExportarCSV)
	api.Post("/invitados/importar", importExportHandler.ImportarCSV)
	api.Get("/invitados/asesores_t1", invitadoHandler.ListPorBandera(api_handlers.BanderaAsesorT1))
	api.Get("/invitados/asesores_t2", invitadoHandler.ListPorBandera(api_handlers.BanderaAsesorT2))
	api.Get("/invitados/jurados_protocolo", invitadoHandler.ListPorBandera(api_handlers.BanderaJuradoProtocolo))
	api.Get("/invitados/jurados_informe", invitadoHandler.ListPorBandera(api_handlers.BanderaJuradoInforme))
	api.Get("/invitados/especiales", invitadoHandler.ListPorBandera(api_handlers.BanderaEspecial))

	api.Get("/invitados", invitadoHandler.ListInvitados)
	api.Post("/invitados", invitadoHandler.CreateInvitado)
	api.Get("/invitados/:id", invitadoHandler.GetInvitado)
	api.Put("/invitados/:id", invitadoHandler.UpdateInvitado)
	api.Delete("/invitados/:id", invitadoHandler.DeleteInvitado)

	api.Post("/upload-files", generacionHandler.CargarArchivos)
	api.Post("/generate-all-invitations", generacionHandler.GenerarTodas)
	api.Post("/generate-invitation/:id", generacionHandler.GenerarIndividual)
}
