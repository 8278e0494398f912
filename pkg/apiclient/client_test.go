package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fpit.app/models"
	"fpit.app/services"
)

func clienteDePrueba(servidor *httptest.Server) *Cliente {
	c := NewCliente(servidor.URL)
	c.esperaReintento = time.Millisecond
	return c
}

func TestObtenerInvitadosReintentaYRecupera(t *testing.T) {
	var llamadas int
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
		if llamadas <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]models.Invitado{
			{NombreCompleto: "Juan Pérez"},
			{NombreCompleto: "Ana Gómez"},
		})
	}))
	defer servidor.Close()

	invitados, err := clienteDePrueba(servidor).ObtenerInvitados(context.Background())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if llamadas != 3 {
		t.Errorf("llamadas = %d, se esperaban 3 (dos fallos y un éxito)", llamadas)
	}
	if len(invitados) != 2 || invitados[0].NombreCompleto != "Juan Pérez" {
		t.Errorf("catálogo inesperado: %+v", invitados)
	}
}

func TestObtenerInvitadosAgotaElPresupuesto(t *testing.T) {
	var llamadas int
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer servidor.Close()

	_, err := clienteDePrueba(servidor).ObtenerInvitados(context.Background())
	if err == nil {
		t.Fatal("se esperaba un error terminal")
	}
	if llamadas != MaxReintentos+1 {
		t.Errorf("llamadas = %d, se esperaban %d", llamadas, MaxReintentos+1)
	}
}

func TestCrearInvitado(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/invitados" {
			t.Errorf("solicitud inesperada: %s %s", r.Method, r.URL.Path)
		}
		var input services.CrearInvitadoInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Fatalf("cuerpo ilegible: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Invitado{
			BaseModel:      models.BaseModel{ID: 42},
			NombreCompleto: input.NombreCompleto,
		})
	}))
	defer servidor.Close()

	invitado, err := clienteDePrueba(servidor).CrearInvitado(context.Background(), services.CrearInvitadoInput{
		NombreCompleto: "Juan Pérez",
	})
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if invitado.ID != 42 || invitado.NombreCompleto != "Juan Pérez" {
		t.Errorf("invitado inesperado: %+v", invitado)
	}
}

func TestEliminarInvitado(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/invitados/7" {
			t.Errorf("solicitud inesperada: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"result": "deleted"})
	}))
	defer servidor.Close()

	if err := clienteDePrueba(servidor).EliminarInvitado(context.Background(), 7); err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
}

func TestErrorConMensajeDelBackend(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "invitado no encontrado"})
	}))
	defer servidor.Close()

	_, err := clienteDePrueba(servidor).ObtenerInvitado(context.Background(), 999)
	if err == nil {
		t.Fatal("se esperaba un error")
	}
	if !strings.Contains(err.Error(), "invitado no encontrado") {
		t.Errorf("el error no conserva el mensaje del backend: %v", err)
	}
}

func TestCargarArchivos(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload-files" {
			t.Errorf("ruta inesperada: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("formulario ilegible: %v", err)
		}
		for _, campo := range []string{services.CampoPlantilla, services.CampoConvocatoria, services.CampoCronograma} {
			if _, ok := r.MultipartForm.File[campo]; !ok {
				t.Errorf("falta el campo %s en el formulario", campo)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"files": services.ArchivosBase{
				PlantillaDocx:   "/trabajo/a_plantilla.docx",
				ConvocatoriaPdf: "/trabajo/a_convocatoria.pdf",
				CronogramaPdf:   "/trabajo/a_cronograma.pdf",
			},
		})
	}))
	defer servidor.Close()

	archivos, err := clienteDePrueba(servidor).CargarArchivos(context.Background(),
		Archivo{Nombre: "plantilla.docx", Contenido: strings.NewReader("docx")},
		Archivo{Nombre: "convocatoria.pdf", Contenido: strings.NewReader("pdf1")},
		Archivo{Nombre: "cronograma.pdf", Contenido: strings.NewReader("pdf2")},
	)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if archivos.PlantillaDocx != "/trabajo/a_plantilla.docx" {
		t.Errorf("rutas inesperadas: %+v", archivos)
	}
}

func TestGenerarTodas(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-all-invitations" {
			t.Errorf("ruta inesperada: %s", r.URL.Path)
		}
		var solicitud map[string]any
		if err := json.NewDecoder(r.Body).Decode(&solicitud); err != nil {
			t.Fatalf("cuerpo ilegible: %v", err)
		}
		if solicitud["anio"] != float64(2024) || solicitud["periodo"] != float64(1) {
			t.Errorf("el periodo no viaja con las claves esperadas: %v", solicitud)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":         true,
			"message":         "Generación terminada",
			"generated_count": 5,
			"output_folder":   "/home/usuario/Desktop/2024.1-invitaciones",
			"errors": []services.ErrorInvitado{
				{Invitado: "Ana Gómez", Mensaje: "plantilla ilegible"},
			},
		})
	}))
	defer servidor.Close()

	resultado, err := clienteDePrueba(servidor).GenerarTodas(context.Background(),
		models.PeriodoEvento{Anio: 2024, Numero: 1},
		models.DatosEvento{EdicionEvento: "XII", FechaEvento: "2024-05-02", FechaCarta: "2024-04-15"},
	)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if resultado.Generados != 5 {
		t.Errorf("generados = %d, se esperaban 5", resultado.Generados)
	}
	if len(resultado.Errores) != 1 || resultado.Errores[0].Invitado != "Ana Gómez" {
		t.Errorf("errores inesperados: %+v", resultado.Errores)
	}
}

func TestGenerarIndividualConFalloDelBackend(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-invitation/3" {
			t.Errorf("ruta inesperada: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "los archivos base no han sido cargados"})
	}))
	defer servidor.Close()

	_, err := clienteDePrueba(servidor).GenerarIndividual(context.Background(), 3,
		models.PeriodoEvento{Anio: 2024, Numero: 1}, models.DatosEvento{})
	if err == nil {
		t.Fatal("se esperaba un error")
	}
	if !strings.Contains(err.Error(), "archivos base") {
		t.Errorf("el error no conserva el mensaje del backend: %v", err)
	}
}

func TestSalud(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("ruta inesperada: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer servidor.Close()

	if err := clienteDePrueba(servidor).Salud(context.Background()); err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
}
