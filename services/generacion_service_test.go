package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"fpit.app/models"
	"fpit.app/pkg/dossier"
	"fpit.app/repositories"
)

// stagingMock implementa IStagingService con estado fijo.
type stagingMock struct {
	archivos *ArchivosBase
	reseteos int
}

func (m *stagingMock) Stage(ctx context.Context, plantilla, convocatoria, cronograma *ArchivoSubido) (*ArchivosBase, error) {
	return m.archivos, nil
}

func (m *stagingMock) Archivos() (*ArchivosBase, bool) {
	if m.archivos == nil {
		return nil, false
	}
	return m.archivos, true
}

func (m *stagingMock) IsReady() bool { return m.archivos != nil }

func (m *stagingMock) Reset() error {
	m.reseteos++
	m.archivos = nil
	return nil
}

var _ IStagingService = (*stagingMock)(nil)

// generadorMock implementa dossier.Generador con una función inyectable.
type generadorMock struct {
	generarFn   func(ctx context.Context, sol dossier.Solicitud) error
	solicitudes []dossier.Solicitud
}

func (m *generadorMock) Generar(ctx context.Context, sol dossier.Solicitud) error {
	m.solicitudes = append(m.solicitudes, sol)
	if m.generarFn == nil {
		return nil
	}
	return m.generarFn(ctx, sol)
}

var _ dossier.Generador = (*generadorMock)(nil)

func stagingListo() *stagingMock {
	return &stagingMock{archivos: &ArchivosBase{
		PlantillaDocx:   "/trabajo/plantilla.docx",
		ConvocatoriaPdf: "/trabajo/convocatoria.pdf",
		CronogramaPdf:   "/trabajo/cronograma.pdf",
	}}
}

func catalogoDePrueba() []models.Invitado {
	return []models.Invitado{
		{BaseModel: models.BaseModel{ID: 1}, NombreCompleto: "Juan Pérez", CaracterInvitacion: "Ponente",
			Puestos: []models.InvitadoPuesto{{Orden: 1, Cargo: "Profesor", Organizacion: "ITM", Abreviacion: "ITM"}}},
		{BaseModel: models.BaseModel{ID: 2}, NombreCompleto: "Ana Gómez", CaracterInvitacion: "Jurado"},
		{BaseModel: models.BaseModel{ID: 3}, NombreCompleto: "Luis Soto", CaracterInvitacion: "Asesor"},
	}
}

func repoConCatalogo(invitados []models.Invitado) *repoMock {
	return &repoMock{
		findAllFn: func(ctx context.Context) ([]models.Invitado, error) {
			return invitados, nil
		},
		findByIDFn: func(ctx context.Context, id uint) (*models.Invitado, error) {
			for i := range invitados {
				if invitados[i].ID == id {
					return &invitados[i], nil
				}
			}
			return nil, repositories.ErrNotFound
		},
	}
}

func periodoDePrueba() models.PeriodoEvento {
	return models.PeriodoEvento{Anio: 2024, Numero: 1}
}

func datosDePrueba() models.DatosEvento {
	return models.DatosEvento{
		EdicionEvento: "XII Feria de Proyectos",
		FechaEvento:   "2024-05-02",
		FechaCarta:    "2024-04-15",
	}
}

func TestGenerarPrecondicionesEnOrden(t *testing.T) {
	casos := []struct {
		nombre   string
		staging  *stagingMock
		modo     ModoGeneracion
		id       uint
		periodo  models.PeriodoEvento
		datos    models.DatosEvento
		esperado GeneracionServiceError
	}{
		{"sin archivos", &stagingMock{}, ModoTodos, 0, periodoDePrueba(), datosDePrueba(), ErrArchivosNoCargados},
		// Los archivos faltantes ganan aunque la configuración también falle.
		{"sin archivos ni configuración", &stagingMock{}, ModoTodos, 0, models.PeriodoEvento{}, models.DatosEvento{}, ErrArchivosNoCargados},
		{"periodo inválido", stagingListo(), ModoTodos, 0, models.PeriodoEvento{Anio: 2024}, datosDePrueba(), ErrConfiguracionIncompleta},
		{"datos incompletos", stagingListo(), ModoTodos, 0, periodoDePrueba(), models.DatosEvento{EdicionEvento: "XII"}, ErrConfiguracionIncompleta},
		{"individual sin invitado", stagingListo(), ModoIndividual, 0, periodoDePrueba(), datosDePrueba(), ErrInvitadoNoSeleccionado},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			generador := &generadorMock{}
			servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), c.staging, generador,
				"/salida", "Dra. Firmante", "Directora")

			var err error
			if c.modo == ModoIndividual {
				_, err = servicio.GenerarIndividual(context.Background(), c.id, c.periodo, c.datos)
			} else {
				_, err = servicio.GenerarTodas(context.Background(), c.periodo, c.datos)
			}
			if !errors.Is(err, c.esperado) {
				t.Fatalf("error = %v, se esperaba %v", err, c.esperado)
			}
			if len(generador.solicitudes) != 0 {
				t.Errorf("el generador fue llamado pese a la precondición fallida")
			}
		})
	}
}

func TestGenerarTodasAcumulaErroresPorInvitado(t *testing.T) {
	generador := &generadorMock{
		generarFn: func(ctx context.Context, sol dossier.Solicitud) error {
			if strings.Contains(sol.Destino, "Ana Gómez") {
				return errors.New("plantilla ilegible")
			}
			return nil
		},
	}
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), generador,
		"/salida", "Dra. Firmante", "Directora")

	resultado, err := servicio.GenerarTodas(context.Background(), periodoDePrueba(), datosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if resultado.Generados != 2 {
		t.Errorf("generados = %d, se esperaban 2", resultado.Generados)
	}
	if len(resultado.Errores) != 1 {
		t.Fatalf("errores = %d, se esperaba 1", len(resultado.Errores))
	}
	if resultado.Errores[0].Invitado != "Ana Gómez" {
		t.Errorf("invitado fallido = %q, se esperaba Ana Gómez", resultado.Errores[0].Invitado)
	}
	// Todos los invitados se intentan aunque uno falle.
	if len(generador.solicitudes) != 3 {
		t.Errorf("solicitudes al generador = %d, se esperaban 3", len(generador.solicitudes))
	}
	if resultado.Generados+len(resultado.Errores) != 3 {
		t.Errorf("generados + errores = %d, debe igualar el total de invitados",
			resultado.Generados+len(resultado.Errores))
	}
}

func TestGenerarTodasNombresYCarpeta(t *testing.T) {
	generador := &generadorMock{}
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), generador,
		"/salida", "Dra. Firmante", "Directora")

	resultado, err := servicio.GenerarTodas(context.Background(), periodoDePrueba(), datosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if resultado.CarpetaSalida != filepath.Join("/salida", "2024.1-invitaciones") {
		t.Errorf("carpeta = %q", resultado.CarpetaSalida)
	}
	if len(generador.solicitudes) != 3 {
		t.Fatalf("solicitudes = %d, se esperaban 3", len(generador.solicitudes))
	}
	destino := generador.solicitudes[0].Destino
	esperado := filepath.Join("/salida", "2024.1-invitaciones", "2024.1-FPiT-DOSSIER-ITM-Juan Pérez.pdf")
	if destino != esperado {
		t.Errorf("destino = %q, se esperaba %q", destino, esperado)
	}
	// Sin puestos se usa la organización centinela.
	if !strings.Contains(generador.solicitudes[1].Destino, "-INVITADO-Ana Gómez.pdf") {
		t.Errorf("destino sin puesto = %q", generador.solicitudes[1].Destino)
	}
}

func TestGenerarIndividual(t *testing.T) {
	generador := &generadorMock{}
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), generador,
		"/salida", "Dra. Firmante", "Directora")

	resultado, err := servicio.GenerarIndividual(context.Background(), 2, periodoDePrueba(), datosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if resultado.Generados != 1 || len(resultado.Errores) != 0 {
		t.Errorf("resultado inesperado: %+v", resultado)
	}
	if len(generador.solicitudes) != 1 {
		t.Fatalf("solicitudes = %d, se esperaba 1", len(generador.solicitudes))
	}
	if !strings.Contains(generador.solicitudes[0].Carta, "Ana Gómez") {
		t.Errorf("la carta no contiene al invitado seleccionado")
	}
}

func TestGenerarIndividualNoEncontrado(t *testing.T) {
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), &generadorMock{},
		"/salida", "Dra. Firmante", "Directora")

	_, err := servicio.GenerarIndividual(context.Background(), 404, periodoDePrueba(), datosDePrueba())
	if !errors.Is(err, ErrInvitadoNoEncontrado) {
		t.Fatalf("error = %v, se esperaba ErrInvitadoNoEncontrado", err)
	}
}

func TestGenerarUsaFirmantePorDefecto(t *testing.T) {
	generador := &generadorMock{}
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), generador,
		"/salida", "Dra. Carmen Ruiz", "Directora General")

	_, err := servicio.GenerarIndividual(context.Background(), 1, periodoDePrueba(), datosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	carta := generador.solicitudes[0].Carta
	if !strings.Contains(carta, "Dra. Carmen Ruiz") || !strings.Contains(carta, "Directora General") {
		t.Errorf("la carta no incorpora al firmante configurado")
	}
}

func TestGenerarFirmanteDeLaSolicitudGana(t *testing.T) {
	generador := &generadorMock{}
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), generador,
		"/salida", "Dra. Carmen Ruiz", "Directora General")

	datos := datosDePrueba()
	datos.NombreFirmante = "Mtro. Pablo León"
	_, err := servicio.GenerarIndividual(context.Background(), 1, periodoDePrueba(), datos)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	carta := generador.solicitudes[0].Carta
	if !strings.Contains(carta, "Mtro. Pablo León") {
		t.Errorf("la carta ignora al firmante de la solicitud")
	}
	// El cargo no vino en la solicitud: se completa desde la configuración.
	if !strings.Contains(carta, "Directora General") {
		t.Errorf("la carta no completa el cargo desde la configuración")
	}
}

func TestGenerarCancelacionAbortaElLote(t *testing.T) {
	generador := &generadorMock{}
	servicio := NewGeneracionService(repoConCatalogo(catalogoDePrueba()), stagingListo(), generador,
		"/salida", "Dra. Firmante", "Directora")

	ctx, cancelar := context.WithCancel(context.Background())
	cancelar()

	_, err := servicio.GenerarTodas(ctx, periodoDePrueba(), datosDePrueba())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, se esperaba context.Canceled", err)
	}
	if len(generador.solicitudes) != 0 {
		t.Errorf("el generador fue llamado con el contexto cancelado")
	}
}
