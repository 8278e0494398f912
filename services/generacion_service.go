package services

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"fpit.app/configs/configslog"
	"fpit.app/models"
	"fpit.app/pkg/dossier"
	"fpit.app/pkg/nomenclatura"
	"fpit.app/pkg/plantilla"
	"fpit.app/repositories"
)

// GeneracionServiceError errores del orquestador de generación.
type GeneracionServiceError string

func (e GeneracionServiceError) Error() string { return string(e) }

const (
	// Precondiciones, en el orden en que se verifican.
	ErrArchivosNoCargados      GeneracionServiceError = "los archivos base no han sido cargados"
	ErrConfiguracionIncompleta GeneracionServiceError = "la configuración del evento está incompleta"
	ErrInvitadoNoSeleccionado  GeneracionServiceError = "no se ha seleccionado un invitado"
	// Fallo total: el lote no pudo ejecutarse.
	ErrSinCatalogo GeneracionServiceError = "no se pudo consultar el catálogo de invitados"
)

// ModoGeneracion alcance de una corrida.
type ModoGeneracion string

const (
	ModoTodos      ModoGeneracion = "todos"
	ModoIndividual ModoGeneracion = "individual"
)

// ErrorInvitado el fallo de un invitado concreto dentro del lote.
type ErrorInvitado struct {
	Invitado string `json:"invitado"`
	Mensaje  string `json:"error"`
}

// ResultadoGeneracion resumen de una corrida. Se cumple siempre que
// Generados + len(Errores) es igual al total de invitados intentados.
type ResultadoGeneracion struct {
	Generados     int             `json:"generated_count"`
	CarpetaSalida string          `json:"output_folder"`
	Errores       []ErrorInvitado `json:"errors"`
}

// IGeneracionService orquesta la generación de dossiers.
type IGeneracionService interface {
	GenerarTodas(ctx context.Context, periodo models.PeriodoEvento, datos models.DatosEvento) (*ResultadoGeneracion, error)
	GenerarIndividual(ctx context.Context, invitadoID uint, periodo models.PeriodoEvento, datos models.DatosEvento) (*ResultadoGeneracion, error)
}

// GeneracionService implementa IGeneracionService. Las dependencias se
// inyectan en la construcción; no hay colaboradores ambientales.
type GeneracionService struct {
	repo       repositories.IInvitadoRepository
	staging    IStagingService
	generador  dossier.Generador
	raizSalida string
	firmante   models.DatosEvento // solo NombreFirmante y CargoFirmante
}

// NewGeneracionService crea el orquestador.
func NewGeneracionService(repo repositories.IInvitadoRepository, staging IStagingService, generador dossier.Generador, raizSalida, nombreFirmante, cargoFirmante string) IGeneracionService {
	return &GeneracionService{
		repo:       repo,
		staging:    staging,
		generador:  generador,
		raizSalida: raizSalida,
		firmante: models.DatosEvento{
			NombreFirmante: nombreFirmante,
			CargoFirmante:  cargoFirmante,
		},
	}
}

// GenerarTodas genera el dossier de cada invitado del catálogo.
func (s *GeneracionService) GenerarTodas(ctx context.Context, periodo models.PeriodoEvento, datos models.DatosEvento) (*ResultadoGeneracion, error) {
	return s.generar(ctx, ModoTodos, 0, periodo, datos)
}

// GenerarIndividual genera el dossier de un solo invitado.
func (s *GeneracionService) GenerarIndividual(ctx context.Context, invitadoID uint, periodo models.PeriodoEvento, datos models.DatosEvento) (*ResultadoGeneracion, error) {
	return s.generar(ctx, ModoIndividual, invitadoID, periodo, datos)
}

func (s *GeneracionService) generar(ctx context.Context, modo ModoGeneracion, invitadoID uint, periodo models.PeriodoEvento, datos models.DatosEvento) (*ResultadoGeneracion, error) {
	// Precondiciones, en orden: gana el primer fallo. Ninguna llega a
	// tocar al colaborador de ensamblado.
	archivos, listos := s.staging.Archivos()
	if !listos {
		return nil, ErrArchivosNoCargados
	}
	if !periodo.EsValido() || !datos.Completos() {
		return nil, ErrConfiguracionIncompleta
	}
	if modo == ModoIndividual && invitadoID == 0 {
		return nil, ErrInvitadoNoSeleccionado
	}

	if datos.NombreFirmante == "" {
		datos.NombreFirmante = s.firmante.NombreFirmante
	}
	if datos.CargoFirmante == "" {
		datos.CargoFirmante = s.firmante.CargoFirmante
	}

	var invitados []models.Invitado
	if modo == ModoIndividual {
		invitado, err := s.repo.FindByID(ctx, invitadoID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvitadoNoEncontrado
			}
			configslog.Log.Error("Generación: no se pudo leer el invitado",
				zap.Uint("id", invitadoID), zap.Error(err))
			return nil, ErrSinCatalogo
		}
		invitados = []models.Invitado{*invitado}
	} else {
		var err error
		invitados, err = s.repo.FindAll(ctx)
		if err != nil {
			configslog.Log.Error("Generación: no se pudo listar el catálogo", zap.Error(err))
			return nil, ErrSinCatalogo
		}
	}

	carpeta := nomenclatura.CarpetaSalida(periodo)
	resultado := &ResultadoGeneracion{
		CarpetaSalida: filepath.Join(s.raizSalida, carpeta),
	}

	for i := range invitados {
		// Una cancelación aborta el lote completo, no un solo elemento.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inv := &invitados[i]

		carta := plantilla.Render(plantilla.PlantillaCarta, inv, datos)
		destino := filepath.Join(resultado.CarpetaSalida, nomenclatura.NombreArchivo(periodo, inv))

		err := s.generador.Generar(ctx, dossier.Solicitud{
			Carta:           carta,
			PlantillaDocx:   archivos.PlantillaDocx,
			ConvocatoriaPdf: archivos.ConvocatoriaPdf,
			CronogramaPdf:   archivos.CronogramaPdf,
			Destino:         destino,
		})
		if err != nil {
			// El fallo de un invitado no detiene a los demás.
			configslog.Log.Warn("Generación: dossier fallido",
				zap.Uint("invitado_id", inv.ID),
				zap.String("invitado", inv.NombreCompleto),
				zap.Error(err))
			resultado.Errores = append(resultado.Errores, ErrorInvitado{
				Invitado: inv.NombreCompleto,
				Mensaje:  err.Error(),
			})
			continue
		}
		resultado.Generados++
	}

	configslog.SLog.Infof("Generación %s terminada: %d generados, %d con error, carpeta %s",
		modo, resultado.Generados, len(resultado.Errores), resultado.CarpetaSalida)
	return resultado, nil
}

var _ IGeneracionService = (*GeneracionService)(nil)
