package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fpit.app/configs/configslog"
	"fpit.app/models"
	"fpit.app/repositories"
)

// InvitadoServiceError errores propios del servicio de invitados.
type InvitadoServiceError string

func (e InvitadoServiceError) Error() string { return string(e) }

const (
	ErrInvitadoNoEncontrado InvitadoServiceError = "invitado no encontrado"
	ErrInvitadoInvalido     InvitadoServiceError = "datos de invitado no válidos"
	ErrDemasiadosPuestos    InvitadoServiceError = "un invitado admite como máximo cuatro puestos"
)

// PuestoInput un puesto dentro de una solicitud de alta o edición.
type PuestoInput struct {
	Cargo        string `json:"cargo" validate:"max=200"`
	Organizacion string `json:"organizacion" validate:"max=200"`
	Abreviacion  string `json:"abreviacion" validate:"max=50"`
}

// CrearInvitadoInput cuerpo de la solicitud de alta.
type CrearInvitadoInput struct {
	NombreCompleto          string        `json:"nombre_completo" validate:"required,max=200"`
	CaracterInvitacion      string        `json:"caracter_invitacion" validate:"required,max=300"`
	Nota                    string        `json:"nota"`
	Puestos                 []PuestoInput `json:"puestos" validate:"max=4,dive"`
	EsAsesorT1              bool          `json:"es_asesor_t1"`
	EsAsesorT2              bool          `json:"es_asesor_t2"`
	PuedeSerJuradoProtocolo bool          `json:"puede_ser_jurado_protocolo"`
	PuedeSerJuradoInforme   bool          `json:"puede_ser_jurado_informe"`
	EsInvitadoEspecial      bool          `json:"es_invitado_especial"`
}

// ActualizarInvitadoInput cuerpo de la solicitud de edición. Todos los
// campos son opcionales: solo se modifica lo que viene presente.
type ActualizarInvitadoInput struct {
	NombreCompleto          *string        `json:"nombre_completo" validate:"omitempty,min=1,max=200"`
	CaracterInvitacion      *string        `json:"caracter_invitacion" validate:"omitempty,min=1,max=300"`
	Nota                    *string        `json:"nota"`
	Puestos                 *[]PuestoInput `json:"puestos" validate:"omitempty,max=4,dive"`
	EsAsesorT1              *bool          `json:"es_asesor_t1"`
	EsAsesorT2              *bool          `json:"es_asesor_t2"`
	PuedeSerJuradoProtocolo *bool          `json:"puede_ser_jurado_protocolo"`
	PuedeSerJuradoInforme   *bool          `json:"puede_ser_jurado_informe"`
	EsInvitadoEspecial      *bool          `json:"es_invitado_especial"`
}

// Estadisticas conteos agregados por bandera de rol.
type Estadisticas struct {
	Total            int64 `json:"total"`
	AsesoresT1       int64 `json:"asesores_t1"`
	AsesoresT2       int64 `json:"asesores_t2"`
	JuradosProtocolo int64 `json:"jurados_protocolo"`
	JuradosInforme   int64 `json:"jurados_informe"`
	JuradosAmbos     int64 `json:"jurados_ambos"`
	Especiales       int64 `json:"invitados_especiales"`
}

// ResultadoImportacion resumen de una importación CSV.
type ResultadoImportacion struct {
	Importados int      `json:"importados"`
	Errores    []string `json:"errores"`
}

// IInvitadoService operaciones sobre el catálogo de invitados.
type IInvitadoService interface {
	ListarInvitados(ctx context.Context) ([]models.Invitado, error)
	ListarPorBandera(ctx context.Context, bandera string) ([]models.Invitado, error)
	ObtenerInvitado(ctx context.Context, id uint) (*models.Invitado, error)
	CrearInvitado(ctx context.Context, input CrearInvitadoInput) (*models.Invitado, error)
	ActualizarInvitado(ctx context.Context, id uint, input ActualizarInvitadoInput) (*models.Invitado, error)
	EliminarInvitado(ctx context.Context, id uint) error
	ObtenerEstadisticas(ctx context.Context) (*Estadisticas, error)
	ExportarCSV(ctx context.Context, w io.Writer) error
	PlantillaCSV(w io.Writer) error
	ImportarCSV(ctx context.Context, r io.Reader) (*ResultadoImportacion, error)
}

// InvitadoService implementa IInvitadoService.
type InvitadoService struct {
	repo     repositories.IInvitadoRepository
	validate *validator.Validate
}

// NewInvitadoService crea el servicio sobre la conexión dada.
func NewInvitadoService(db *gorm.DB) IInvitadoService {
	return NewInvitadoServiceConRepo(repositories.NewInvitadoRepository(db))
}

// NewInvitadoServiceConRepo crea el servicio con un repositorio ya
// construido (útil para pruebas).
func NewInvitadoServiceConRepo(repo repositories.IInvitadoRepository) IInvitadoService {
	return &InvitadoService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ListarInvitados devuelve el catálogo completo.
func (s *InvitadoService) ListarInvitados(ctx context.Context) ([]models.Invitado, error) {
	return s.repo.FindAll(ctx)
}

// ListarPorBandera devuelve los invitados con la bandera activa.
func (s *InvitadoService) ListarPorBandera(ctx context.Context, bandera string) ([]models.Invitado, error) {
	return s.repo.FindByBandera(ctx, bandera)
}

// ObtenerInvitado busca un invitado por ID.
func (s *InvitadoService) ObtenerInvitado(ctx context.Context, id uint) (*models.Invitado, error) {
	invitado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitadoNoEncontrado
		}
		return nil, err
	}
	return invitado, nil
}

// CrearInvitado valida y persiste un invitado nuevo.
func (s *InvitadoService) CrearInvitado(ctx context.Context, input CrearInvitadoInput) (*models.Invitado, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvitadoInvalido, err)
	}

	invitado := models.Invitado{
		NombreCompleto:          strings.TrimSpace(input.NombreCompleto),
		CaracterInvitacion:      strings.TrimSpace(input.CaracterInvitacion),
		Nota:                    input.Nota,
		Puestos:                 convertirPuestos(input.Puestos),
		EsAsesorT1:              input.EsAsesorT1,
		EsAsesorT2:              input.EsAsesorT2,
		PuedeSerJuradoProtocolo: input.PuedeSerJuradoProtocolo,
		PuedeSerJuradoInforme:   input.PuedeSerJuradoInforme,
		EsInvitadoEspecial:      input.EsInvitadoEspecial,
	}

	if err := s.repo.Create(ctx, &invitado); err != nil {
		configslog.Log.Error("CrearInvitado: no se pudo persistir", zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("Invitado creado: ID %d, %s", invitado.ID, invitado.NombreCompleto)
	return &invitado, nil
}

// ActualizarInvitado aplica una edición parcial. El ID no cambia nunca.
func (s *InvitadoService) ActualizarInvitado(ctx context.Context, id uint, input ActualizarInvitadoInput) (*models.Invitado, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvitadoInvalido, err)
	}

	invitado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitadoNoEncontrado
		}
		return nil, err
	}

	if input.NombreCompleto != nil {
		invitado.NombreCompleto = strings.TrimSpace(*input.NombreCompleto)
	}
	if input.CaracterInvitacion != nil {
		invitado.CaracterInvitacion = strings.TrimSpace(*input.CaracterInvitacion)
	}
	if input.Nota != nil {
		invitado.Nota = *input.Nota
	}
	if input.EsAsesorT1 != nil {
		invitado.EsAsesorT1 = *input.EsAsesorT1
	}
	if input.EsAsesorT2 != nil {
		invitado.EsAsesorT2 = *input.EsAsesorT2
	}
	if input.PuedeSerJuradoProtocolo != nil {
		invitado.PuedeSerJuradoProtocolo = *input.PuedeSerJuradoProtocolo
	}
	if input.PuedeSerJuradoInforme != nil {
		invitado.PuedeSerJuradoInforme = *input.PuedeSerJuradoInforme
	}
	if input.EsInvitadoEspecial != nil {
		invitado.EsInvitadoEspecial = *input.EsInvitadoEspecial
	}

	if err := s.repo.Update(ctx, invitado); err != nil {
		configslog.Log.Error("ActualizarInvitado: no se pudo guardar",
			zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if input.Puestos != nil {
		puestos := convertirPuestos(*input.Puestos)
		if err := s.repo.ReemplazarPuestos(ctx, id, puestos); err != nil {
			configslog.Log.Error("ActualizarInvitado: no se pudieron reemplazar los puestos",
				zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
		invitado.Puestos = puestos
	}

	configslog.SLog.Infof("Invitado actualizado: ID %d", id)
	return invitado, nil
}

// EliminarInvitado borra el invitado de forma definitiva.
func (s *InvitadoService) EliminarInvitado(ctx context.Context, id uint) error {
	invitado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvitadoNoEncontrado
		}
		return err
	}
	if err := s.repo.Delete(ctx, invitado); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvitadoNoEncontrado
		}
		return err
	}
	configslog.SLog.Infof("Invitado eliminado: ID %d", id)
	return nil
}

// ObtenerEstadisticas calcula los conteos agregados por rol.
func (s *InvitadoService) ObtenerEstadisticas(ctx context.Context) (*Estadisticas, error) {
	var est Estadisticas
	var err error

	if est.Total, err = s.repo.Count(ctx); err != nil {
		return nil, err
	}
	if est.AsesoresT1, err = s.repo.CountPorBandera(ctx, repositories.BanderaAsesorT1); err != nil {
		return nil, err
	}
	if est.AsesoresT2, err = s.repo.CountPorBandera(ctx, repositories.BanderaAsesorT2); err != nil {
		return nil, err
	}
	if est.JuradosProtocolo, err = s.repo.CountPorBandera(ctx, repositories.BanderaJuradoProtocolo); err != nil {
		return nil, err
	}
	if est.JuradosInforme, err = s.repo.CountPorBandera(ctx, repositories.BanderaJuradoInforme); err != nil {
		return nil, err
	}
	if est.JuradosAmbos, err = s.repo.CountJuradosAmbos(ctx); err != nil {
		return nil, err
	}
	if est.Especiales, err = s.repo.CountPorBandera(ctx, repositories.BanderaEspecial); err != nil {
		return nil, err
	}
	return &est, nil
}

// Columnas del intercambio CSV. El orden es el de la plantilla que se
// entrega al usuario para la importación masiva.
var columnasCSV = []string{
	"nombre_completo", "caracter_invitacion", "nota",
	"cargo_1", "organizacion_1", "abreviacion_1",
	"cargo_2", "organizacion_2",
	"cargo_3", "organizacion_3",
	"cargo_4", "organizacion_4",
	"es_asesor_t1", "es_asesor_t2",
	"puede_ser_jurado_protocolo", "puede_ser_jurado_informe",
	"es_invitado_especial",
}

// PlantillaCSV escribe la plantilla de importación (solo cabecera).
func (s *InvitadoService) PlantillaCSV(w io.Writer) error {
	escritor := csv.NewWriter(w)
	if err := escritor.Write(columnasCSV); err != nil {
		return err
	}
	escritor.Flush()
	return escritor.Error()
}

// ExportarCSV escribe el catálogo completo en formato CSV.
func (s *InvitadoService) ExportarCSV(ctx context.Context, w io.Writer) error {
	invitados, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	escritor := csv.NewWriter(w)
	if err := escritor.Write(columnasCSV); err != nil {
		return err
	}
	for i := range invitados {
		if err := escritor.Write(filaCSV(&invitados[i])); err != nil {
			return err
		}
	}
	escritor.Flush()
	return escritor.Error()
}

// ImportarCSV crea invitados desde un CSV con la cabecera de la
// plantilla. Las filas con errores se reportan y no detienen el resto.
func (s *InvitadoService) ImportarCSV(ctx context.Context, r io.Reader) (*ResultadoImportacion, error) {
	lector := csv.NewReader(r)
	lector.FieldsPerRecord = -1

	cabecera, err := lector.Read()
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la cabecera del CSV: %w", err)
	}
	indice := make(map[string]int, len(cabecera))
	for i, col := range cabecera {
		indice[strings.TrimSpace(strings.ToLower(col))] = i
	}
	if _, ok := indice["nombre_completo"]; !ok {
		return nil, errors.New("el CSV no tiene la columna nombre_completo")
	}

	resultado := &ResultadoImportacion{}
	numFila := 1
	for {
		fila, err := lector.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		numFila++
		if err != nil {
			resultado.Errores = append(resultado.Errores,
				fmt.Sprintf("fila %d: %v", numFila, err))
			continue
		}

		input := inputDesdeFila(fila, indice)
		if _, err := s.CrearInvitado(ctx, input); err != nil {
			resultado.Errores = append(resultado.Errores,
				fmt.Sprintf("fila %d: %v", numFila, err))
			continue
		}
		resultado.Importados++
	}

	configslog.SLog.Infof("Importación CSV: %d creados, %d con error",
		resultado.Importados, len(resultado.Errores))
	return resultado, nil
}

func convertirPuestos(entradas []PuestoInput) []models.InvitadoPuesto {
	puestos := make([]models.InvitadoPuesto, 0, len(entradas))
	for i, p := range entradas {
		if p.Cargo == "" && p.Organizacion == "" {
			continue
		}
		puestos = append(puestos, models.InvitadoPuesto{
			Orden:        i + 1,
			Cargo:        strings.TrimSpace(p.Cargo),
			Organizacion: strings.TrimSpace(p.Organizacion),
			Abreviacion:  strings.TrimSpace(p.Abreviacion),
		})
	}
	return puestos
}

func filaCSV(inv *models.Invitado) []string {
	fila := []string{inv.NombreCompleto, inv.CaracterInvitacion, inv.Nota}

	for orden := 1; orden <= models.MaxPuestos; orden++ {
		cargo, org, abrev := "", "", ""
		for i := range inv.Puestos {
			if inv.Puestos[i].Orden == orden {
				cargo = inv.Puestos[i].Cargo
				org = inv.Puestos[i].Organizacion
				abrev = inv.Puestos[i].Abreviacion
				break
			}
		}
		if orden == 1 {
			fila = append(fila, cargo, org, abrev)
		} else {
			fila = append(fila, cargo, org)
		}
	}

	fila = append(fila,
		strconv.FormatBool(inv.EsAsesorT1),
		strconv.FormatBool(inv.EsAsesorT2),
		strconv.FormatBool(inv.PuedeSerJuradoProtocolo),
		strconv.FormatBool(inv.PuedeSerJuradoInforme),
		strconv.FormatBool(inv.EsInvitadoEspecial),
	)
	return fila
}

func inputDesdeFila(fila []string, indice map[string]int) CrearInvitadoInput {
	celda := func(col string) string {
		i, ok := indice[col]
		if !ok || i >= len(fila) {
			return ""
		}
		return strings.TrimSpace(fila[i])
	}
	bandera := func(col string) bool {
		v, _ := strconv.ParseBool(celda(col))
		return v
	}

	input := CrearInvitadoInput{
		NombreCompleto:          celda("nombre_completo"),
		CaracterInvitacion:      celda("caracter_invitacion"),
		Nota:                    celda("nota"),
		EsAsesorT1:              bandera("es_asesor_t1"),
		EsAsesorT2:              bandera("es_asesor_t2"),
		PuedeSerJuradoProtocolo: bandera("puede_ser_jurado_protocolo"),
		PuedeSerJuradoInforme:   bandera("puede_ser_jurado_informe"),
		EsInvitadoEspecial:      bandera("es_invitado_especial"),
	}
	for i := 1; i <= models.MaxPuestos; i++ {
		cargo := celda(fmt.Sprintf("cargo_%d", i))
		org := celda(fmt.Sprintf("organizacion_%d", i))
		if cargo == "" && org == "" {
			continue
		}
		puesto := PuestoInput{Cargo: cargo, Organizacion: org}
		if i == 1 {
			puesto.Abreviacion = celda("abreviacion_1")
		}
		input.Puestos = append(input.Puestos, puesto)
	}
	return input
}

var _ IInvitadoService = (*InvitadoService)(nil)
