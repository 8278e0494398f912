package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"fpit.app/configs"
	"fpit.app/pkg/dossier"
	"fpit.app/repositories"
	"fpit.app/services"
)

// SetupRoutes arma los middlewares generales y registra todas las rutas.
// Los servicios se construyen aquí y se inyectan a los handlers.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.Config) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	// El front-end puede servirse desde file:// en el shell de
	// escritorio, por eso el backend acepta peticiones de otro origen.
	app.Use(cors.New())

	repo := repositories.NewInvitadoRepository(db)
	invitadoService := services.NewInvitadoServiceConRepo(repo)
	staging := services.NewStagingService(cfg.DirTrabajo)
	generador := dossier.NewGeneradorExec(cfg.ConvertidorPDF, cfg.UnidorPDF, cfg.DirTrabajo)
	generacionService := services.NewGeneracionService(
		repo, staging, generador, cfg.RaizSalida, cfg.NombreFirmante, cfg.CargoFirmante)

	registerAPIRoutes(app, db, invitadoService, staging, generacionService)

	// Página índice: el cascarón de la interfaz.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"Titulo": "Gestión de Invitados FPiT",
		})
	})

	// 404: JSON para el API, texto plano para lo demás.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	if c.Accepts("application/json", "text/html") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "recurso no encontrado"})
	}
	return c.Status(fiber.StatusNotFound).SendString("Página no encontrada")
}
