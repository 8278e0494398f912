package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fpit.app/configs/configslog"
	"fpit.app/database/migrations"
	"fpit.app/database/seeders"
)

// Initialize ejecuta migraciones y seeders según las banderas. Todo
// corre dentro de una transacción: si algo falla no queda un esquema
// a medias.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Sin banderas de migración o seed, no hay nada que hacer.")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if migrate {
			configslog.SLog.Info("Ejecutando migraciones...")
			if err := RunMigrationsInOrder(tx); err != nil {
				return err
			}
			configslog.SLog.Info("Migraciones completadas.")
		}
		if seed {
			configslog.SLog.Info("Ejecutando seeders...")
			if err := seeders.SeedInvitadosDemo(tx); err != nil {
				return err
			}
			configslog.SLog.Info("Seeders completados.")
		}
		return nil
	})
	if err != nil {
		configslog.Log.Fatal("La inicialización de la base de datos falló", zap.Error(err))
	}

	configslog.SLog.Info("Base de datos inicializada correctamente.")
}

// RunMigrationsInOrder corre las migraciones respetando dependencias.
func RunMigrationsInOrder(db *gorm.DB) error {
	if err := migrations.MigrateInvitadosTables(db); err != nil {
		configslog.Log.Error("Migración de invitados fallida", zap.Error(err))
		return err
	}
	return nil
}
