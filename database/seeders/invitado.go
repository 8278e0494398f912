package seeders

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fpit.app/configs/configslog"
	"fpit.app/models"
)

// SeedInvitadosDemo crea un par de invitados de ejemplo en bases
// vacías, para poder probar la interfaz sin capturar datos. No toca
// nada si ya existen registros.
func SeedInvitadosDemo(db *gorm.DB) error {
	var total int64
	if err := db.Model(&models.Invitado{}).Count(&total).Error; err != nil {
		configslog.Log.Error("No se pudo verificar el catálogo antes del seed", zap.Error(err))
		return err
	}
	if total > 0 {
		configslog.SLog.Info("El catálogo ya tiene invitados, seed omitido.")
		return nil
	}

	demo := []models.Invitado{
		{
			NombreCompleto:     "Ana Ruiz",
			CaracterInvitacion: "asesora técnica del área de protocolo",
			EsAsesorT1:         true,
			Puestos: []models.InvitadoPuesto{
				{Orden: 1, Cargo: "Docente", Organizacion: "Instituto Tecnológico Metropolitano", Abreviacion: "ITM"},
			},
		},
		{
			NombreCompleto:          "Carlos Medina",
			CaracterInvitacion:      "jurado evaluador de informes",
			PuedeSerJuradoProtocolo: true,
			PuedeSerJuradoInforme:   true,
		},
	}

	for i := range demo {
		if err := db.Create(&demo[i]).Error; err != nil {
			configslog.Log.Error("No se pudo crear el invitado de ejemplo",
				zap.String("nombre", demo[i].NombreCompleto), zap.Error(err))
			return errors.New("seed de invitados de ejemplo fallido")
		}
		configslog.SLog.Infof("Invitado de ejemplo creado: %s (ID %d)", demo[i].NombreCompleto, demo[i].ID)
	}
	return nil
}
