package main

import (
	"flag"

	"fpit.app/configs"
	"fpit.app/configs/configsdatabase"
	"fpit.app/configs/configslog"
	"fpit.app/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "Ejecutar las migraciones de la base de datos")
	seedFlag := flag.Bool("seed", false, "Crear los invitados de ejemplo en bases vacías")
	flag.Parse()

	configs.LoadEnv()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	configslog.SLog.Info("Inicializando la base de datos...")
	database.Initialize(configsdatabase.GetDB(), *migrateFlag, *seedFlag)
	configslog.SLog.Info("Inicialización terminada.")
}
