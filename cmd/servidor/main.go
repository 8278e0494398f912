package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"fpit.app/configs"
	"fpit.app/configs/configsdatabase"
	"fpit.app/configs/configslog"
	"fpit.app/database"
	"fpit.app/routes"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", true, "Ejecutar las migraciones al arrancar")
	seedFlag := flag.Bool("seed", false, "Crear invitados de ejemplo en bases vacías")
	vistasDir := flag.String("vistas", "./views", "Directorio de las vistas HTML")
	flag.Parse()

	configs.LoadEnv()
	cfg := configs.Cargar()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	db := configsdatabase.GetDB()

	database.Initialize(db, *migrateFlag, *seedFlag)

	engine := html.New(*vistasDir, ".html")
	app := fiber.New(fiber.Config{
		AppName:   "FPiT Invitados",
		Views:     engine,
		BodyLimit: 50 * 1024 * 1024, // los PDF base pueden ser pesados
	})

	routes.SetupRoutes(app, db, cfg)

	// Apagado ordenado: el shell de escritorio manda SIGTERM al cerrar.
	senales := make(chan os.Signal, 1)
	signal.Notify(senales, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-senales
		configslog.SLog.Infof("Señal %s recibida, apagando el servidor...", s)
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Apagado del servidor con errores", zap.Error(err))
		}
	}()

	configslog.SLog.Infof("Servidor escuchando en %s", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		configslog.Log.Fatal("El servidor terminó con error", zap.Error(err))
	}
}
