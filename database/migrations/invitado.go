package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fpit.app/configs/configslog"
	"fpit.app/models"
)

func MigrateInvitadosTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrando tablas invitados e invitado_puestos...")
	err := db.AutoMigrate(&models.Invitado{}, &models.InvitadoPuesto{})
	if err != nil {
		configslog.Log.Error("No se pudieron migrar las tablas de invitados", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tablas de invitados migradas correctamente.")
	return nil
}
