package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fpit.app/configs/configslog"
)

// Nombres de campo de los tres archivos base, tal como viajan en el
// formulario multipart y como se reportan cuando faltan.
const (
	CampoPlantilla    = "plantilla_docx"
	CampoConvocatoria = "convocatoria_pdf"
	CampoCronograma   = "cronograma_pdf"
)

// MissingAssetsError indica qué archivos base faltan en la carga.
type MissingAssetsError struct {
	Faltantes []string
}

func (e *MissingAssetsError) Error() string {
	return "faltan archivos base: " + strings.Join(e.Faltantes, ", ")
}

// ArchivoSubido un archivo recibido del cliente, aún sin persistir.
type ArchivoSubido struct {
	Nombre    string
	Contenido io.Reader
}

// ArchivosBase rutas de los tres archivos base ya persistidos en el
// área de trabajo del servidor.
type ArchivosBase struct {
	PlantillaDocx   string `json:"plantilla_docx"`
	ConvocatoriaPdf string `json:"convocatoria_pdf"`
	CronogramaPdf   string `json:"cronograma_pdf"`
}

// IStagingService gestiona los archivos base previos a la generación.
// La carga es atómica: o llegan los tres, o no se persiste ninguno.
type IStagingService interface {
	Stage(ctx context.Context, plantilla, convocatoria, cronograma *ArchivoSubido) (*ArchivosBase, error)
	Archivos() (*ArchivosBase, bool)
	IsReady() bool
	Reset() error
}

// StagingService implementa IStagingService sobre un directorio de
// trabajo local. Hay un solo juego de archivos: una carga posterior
// reemplaza a la anterior.
type StagingService struct {
	mu       sync.Mutex
	dir      string
	archivos *ArchivosBase
}

// NewStagingService crea el servicio sobre el directorio de trabajo dado.
func NewStagingService(dir string) *StagingService {
	return &StagingService{dir: dir}
}

// Stage valida que estén los tres archivos y los persiste de forma
// atómica. Si falta alguno devuelve MissingAssetsError con la lista.
func (s *StagingService) Stage(ctx context.Context, plantilla, convocatoria, cronograma *ArchivoSubido) (*ArchivosBase, error) {
	var faltantes []string
	if plantilla == nil {
		faltantes = append(faltantes, CampoPlantilla)
	}
	if convocatoria == nil {
		faltantes = append(faltantes, CampoConvocatoria)
	}
	if cronograma == nil {
		faltantes = append(faltantes, CampoCronograma)
	}
	if len(faltantes) > 0 {
		return nil, &MissingAssetsError{Faltantes: faltantes}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("no se pudo crear el directorio de trabajo: %w", err)
	}

	// Prefijo único por carga: los archivos de la carga anterior se
	// retiran al reemplazar el estado.
	lote := uuid.NewString()
	guardar := func(a *ArchivoSubido, sufijo string) (string, error) {
		destino := filepath.Join(s.dir, lote+"_"+sufijo+filepath.Ext(a.Nombre))
		f, err := os.Create(destino)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(f, a.Contenido); err != nil {
			f.Close()
			os.Remove(destino)
			return "", err
		}
		if err := f.Close(); err != nil {
			os.Remove(destino)
			return "", err
		}
		return destino, nil
	}

	nuevos := &ArchivosBase{}
	var err error
	if nuevos.PlantillaDocx, err = guardar(plantilla, "plantilla"); err != nil {
		return nil, fmt.Errorf("no se pudo guardar la plantilla: %w", err)
	}
	if nuevos.ConvocatoriaPdf, err = guardar(convocatoria, "convocatoria"); err != nil {
		os.Remove(nuevos.PlantillaDocx)
		return nil, fmt.Errorf("no se pudo guardar la convocatoria: %w", err)
	}
	if nuevos.CronogramaPdf, err = guardar(cronograma, "cronograma"); err != nil {
		os.Remove(nuevos.PlantillaDocx)
		os.Remove(nuevos.ConvocatoriaPdf)
		return nil, fmt.Errorf("no se pudo guardar el cronograma: %w", err)
	}

	s.mu.Lock()
	anteriores := s.archivos
	s.archivos = nuevos
	s.mu.Unlock()

	if anteriores != nil {
		if err := eliminarArchivos(anteriores); err != nil {
			configslog.Log.Warn("No se pudieron retirar los archivos base anteriores", zap.Error(err))
		}
	}

	configslog.SLog.Infof("Archivos base cargados (lote %s)", lote)
	return nuevos, nil
}

// Archivos devuelve las rutas de los archivos base si están cargados.
func (s *StagingService) Archivos() (*ArchivosBase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.archivos == nil {
		return nil, false
	}
	copia := *s.archivos
	return &copia, true
}

// IsReady indica si los tres archivos base están cargados.
func (s *StagingService) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archivos != nil
}

// Reset retira los archivos base y limpia el estado. Se llama al
// terminar una corrida de generación, exitosa o abandonada.
func (s *StagingService) Reset() error {
	s.mu.Lock()
	archivos := s.archivos
	s.archivos = nil
	s.mu.Unlock()

	if archivos == nil {
		return nil
	}
	return eliminarArchivos(archivos)
}

func eliminarArchivos(a *ArchivosBase) error {
	var err error
	for _, ruta := range []string{a.PlantillaDocx, a.ConvocatoriaPdf, a.CronogramaPdf} {
		if ruta == "" {
			continue
		}
		if e := os.Remove(ruta); e != nil && !os.IsNotExist(e) {
			err = multierr.Append(err, e)
		}
	}
	return err
}

var _ IStagingService = (*StagingService)(nil)
