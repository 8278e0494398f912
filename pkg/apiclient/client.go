// Package apiclient es el cliente del API REST del backend local.
// Replica el contrato del front-end: reintentos acotados al cargar el
// catálogo y errores legibles en lugar de trazas crudas.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"fpit.app/models"
	"fpit.app/services"
)

// Presupuesto de reintentos para la carga del catálogo. El resto de
// las operaciones no reintenta: el usuario decide si repite la acción.
const (
	MaxReintentos   = 5
	EsperaReintento = time.Second
)

// Cliente habla con el backend en la dirección base configurada.
type Cliente struct {
	BaseURL string
	HTTP    *http.Client

	maxReintentos   int
	esperaReintento time.Duration
}

// NewCliente crea el cliente para la dirección base dada.
// La llamada de generación no lleva tiempo límite: el lote puede tardar
// tanto como invitados tenga el catálogo.
func NewCliente(baseURL string) *Cliente {
	return &Cliente{
		BaseURL:         baseURL,
		HTTP:            &http.Client{},
		maxReintentos:   MaxReintentos,
		esperaReintento: EsperaReintento,
	}
}

// Archivo un archivo local a enviar en un formulario multipart.
type Archivo struct {
	Nombre    string
	Contenido io.Reader
}

// ObtenerInvitados descarga el catálogo completo, reintentando hasta
// agotar el presupuesto antes de devolver el error terminal.
func (c *Cliente) ObtenerInvitados(ctx context.Context) ([]models.Invitado, error) {
	var ultimo error
	for intento := 0; intento <= c.maxReintentos; intento++ {
		if intento > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.esperaReintento):
			}
		}

		var invitados []models.Invitado
		if err := c.hacer(ctx, http.MethodGet, "/api/invitados", nil, &invitados); err != nil {
			ultimo = err
			continue
		}
		return invitados, nil
	}
	return nil, fmt.Errorf("no se pudo obtener el catálogo tras %d reintentos: %w",
		c.maxReintentos, ultimo)
}

// ObtenerInvitado descarga un invitado por ID.
func (c *Cliente) ObtenerInvitado(ctx context.Context, id uint) (*models.Invitado, error) {
	var invitado models.Invitado
	if err := c.hacer(ctx, http.MethodGet, fmt.Sprintf("/api/invitados/%d", id), nil, &invitado); err != nil {
		return nil, err
	}
	return &invitado, nil
}

// CrearInvitado da de alta un invitado.
func (c *Cliente) CrearInvitado(ctx context.Context, input services.CrearInvitadoInput) (*models.Invitado, error) {
	var invitado models.Invitado
	if err := c.hacer(ctx, http.MethodPost, "/api/invitados", input, &invitado); err != nil {
		return nil, err
	}
	return &invitado, nil
}

// ActualizarInvitado aplica una edición parcial.
func (c *Cliente) ActualizarInvitado(ctx context.Context, id uint, input services.ActualizarInvitadoInput) (*models.Invitado, error) {
	var invitado models.Invitado
	if err := c.hacer(ctx, http.MethodPut, fmt.Sprintf("/api/invitados/%d", id), input, &invitado); err != nil {
		return nil, err
	}
	return &invitado, nil
}

// EliminarInvitado borra un invitado.
func (c *Cliente) EliminarInvitado(ctx context.Context, id uint) error {
	return c.hacer(ctx, http.MethodDelete, fmt.Sprintf("/api/invitados/%d", id), nil, nil)
}

// ObtenerEstadisticas descarga los conteos agregados.
func (c *Cliente) ObtenerEstadisticas(ctx context.Context) (*services.Estadisticas, error) {
	var est services.Estadisticas
	if err := c.hacer(ctx, http.MethodGet, "/api/estadisticas", nil, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// CargarArchivos sube los tres archivos base al área de preparación.
func (c *Cliente) CargarArchivos(ctx context.Context, plantilla, convocatoria, cronograma Archivo) (*services.ArchivosBase, error) {
	var cuerpo bytes.Buffer
	formulario := multipart.NewWriter(&cuerpo)

	for _, parte := range []struct {
		campo   string
		archivo Archivo
	}{
		{services.CampoPlantilla, plantilla},
		{services.CampoConvocatoria, convocatoria},
		{services.CampoCronograma, cronograma},
	} {
		w, err := formulario.CreateFormFile(parte.campo, parte.archivo.Nombre)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(w, parte.archivo.Contenido); err != nil {
			return nil, err
		}
	}
	if err := formulario.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/upload-files", &cuerpo)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", formulario.FormDataContentType())

	var respuesta struct {
		Success bool                  `json:"success"`
		Error   string                `json:"error"`
		Files   services.ArchivosBase `json:"files"`
	}
	if err := c.ejecutar(req, &respuesta); err != nil {
		return nil, err
	}
	if !respuesta.Success {
		return nil, fmt.Errorf("la carga de archivos falló: %s", respuesta.Error)
	}
	return &respuesta.Files, nil
}

type solicitudGeneracion struct {
	models.PeriodoEvento
	models.DatosEvento
}

type respuestaGeneracion struct {
	Success        bool                     `json:"success"`
	Error          string                   `json:"error"`
	Message        string                   `json:"message"`
	GeneratedCount int                      `json:"generated_count"`
	OutputFolder   string                   `json:"output_folder"`
	Errors         []services.ErrorInvitado `json:"errors"`
}

// GenerarTodas pide la generación del lote completo.
func (c *Cliente) GenerarTodas(ctx context.Context, periodo models.PeriodoEvento, datos models.DatosEvento) (*services.ResultadoGeneracion, error) {
	return c.generar(ctx, "/api/generate-all-invitations", periodo, datos)
}

// GenerarIndividual pide la generación del dossier de un invitado.
func (c *Cliente) GenerarIndividual(ctx context.Context, id uint, periodo models.PeriodoEvento, datos models.DatosEvento) (*services.ResultadoGeneracion, error) {
	return c.generar(ctx, fmt.Sprintf("/api/generate-invitation/%d", id), periodo, datos)
}

func (c *Cliente) generar(ctx context.Context, ruta string, periodo models.PeriodoEvento, datos models.DatosEvento) (*services.ResultadoGeneracion, error) {
	var respuesta respuestaGeneracion
	solicitud := solicitudGeneracion{PeriodoEvento: periodo, DatosEvento: datos}
	if err := c.hacer(ctx, http.MethodPost, ruta, solicitud, &respuesta); err != nil {
		return nil, err
	}
	if !respuesta.Success {
		return nil, fmt.Errorf("la generación falló: %s", respuesta.Error)
	}
	return &services.ResultadoGeneracion{
		Generados:     respuesta.GeneratedCount,
		CarpetaSalida: respuesta.OutputFolder,
		Errores:       respuesta.Errors,
	}, nil
}

// Salud consulta el endpoint de disponibilidad.
func (c *Cliente) Salud(ctx context.Context) error {
	return c.hacer(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Cliente) hacer(ctx context.Context, metodo, ruta string, cuerpo any, destino any) error {
	var lector io.Reader
	if cuerpo != nil {
		datos, err := json.Marshal(cuerpo)
		if err != nil {
			return err
		}
		lector = bytes.NewReader(datos)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.BaseURL+ruta, lector)
	if err != nil {
		return err
	}
	if cuerpo != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.ejecutar(req, destino)
}

func (c *Cliente) ejecutar(req *http.Request, destino any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// El backend responde errores como {"error": "..."}; se usa ese
		// texto si está disponible.
		var cuerpoError struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&cuerpoError) == nil && cuerpoError.Error != "" {
			return fmt.Errorf("error HTTP %d: %s", resp.StatusCode, cuerpoError.Error)
		}
		return fmt.Errorf("error HTTP %d", resp.StatusCode)
	}

	if destino == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(destino)
}
