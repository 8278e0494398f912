// Package flujo coordina una corrida de generación del lado de la
// interfaz: valida las precondiciones antes de tocar la red, bloquea
// los controles mientras corre y traduce el resultado a notificaciones.
package flujo

import (
	"context"
	"fmt"
	"sync"

	"fpit.app/models"
	"fpit.app/services"
)

// Estado fase actual del flujo de generación.
type Estado string

const (
	EstadoInactivo         Estado = "inactivo"
	EstadoValidando        Estado = "validando"
	EstadoVerificandoCarga Estado = "verificando_carga"
	EstadoGenerando        Estado = "generando"
	EstadoExito            Estado = "exito"
	EstadoExitoParcial     Estado = "exito_parcial"
	EstadoFallo            Estado = "fallo"
)

// FlujoError errores propios del coordinador.
type FlujoError string

func (e FlujoError) Error() string { return string(e) }

const (
	ErrCorridaEnCurso          FlujoError = "ya hay una generación en curso"
	ErrConfiguracionIncompleta FlujoError = "complete el año, el período y los datos del evento"
	ErrInvitadoNoSeleccionado  FlujoError = "seleccione un invitado para la generación individual"
	ErrArchivosNoCargados      FlujoError = "cargue la plantilla, la convocatoria y el cronograma"
)

// Ejecutor dispara la corrida contra el backend. *apiclient.Cliente y
// services.IGeneracionService satisfacen el contrato.
type Ejecutor interface {
	GenerarTodas(ctx context.Context, periodo models.PeriodoEvento, datos models.DatosEvento) (*services.ResultadoGeneracion, error)
	GenerarIndividual(ctx context.Context, invitadoID uint, periodo models.PeriodoEvento, datos models.DatosEvento) (*services.ResultadoGeneracion, error)
}

// EstadoCarga informa si los tres archivos base ya fueron subidos.
type EstadoCarga interface {
	Listo() bool
}

// Notificador muestra un mensaje al usuario.
type Notificador interface {
	Notificar(titulo, mensaje string)
}

// Progreso recibe el avance de la corrida, de 0 a 100.
type Progreso interface {
	Avance(porcentaje int)
}

// Bloqueador inhabilita los controles de generación durante la corrida.
type Bloqueador interface {
	Bloquear()
	Desbloquear()
}

// Flujo el coordinador. Admite una sola corrida a la vez.
type Flujo struct {
	ejecutor    Ejecutor
	carga       EstadoCarga
	notificador Notificador
	progreso    Progreso
	bloqueador  Bloqueador

	mu           sync.Mutex
	estado       Estado
	enCurso      bool
	ultimoAvance int
}

// New crea el coordinador con sus colaboradores inyectados.
func New(ejecutor Ejecutor, carga EstadoCarga, notificador Notificador, progreso Progreso, bloqueador Bloqueador) *Flujo {
	return &Flujo{
		ejecutor:    ejecutor,
		carga:       carga,
		notificador: notificador,
		progreso:    progreso,
		bloqueador:  bloqueador,
		estado:      EstadoInactivo,
	}
}

// EstadoActual devuelve la fase en curso.
func (f *Flujo) EstadoActual() Estado {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.estado
}

// Ejecutar corre el flujo completo para el modo dado. Las precondiciones
// se verifican en orden fijo y la primera que falla gana; ninguna llega
// a tocar al ejecutor. El error devuelto ya fue notificado al usuario.
func (f *Flujo) Ejecutar(ctx context.Context, modo services.ModoGeneracion, invitadoID uint, periodo models.PeriodoEvento, datos models.DatosEvento) (*services.ResultadoGeneracion, error) {
	f.mu.Lock()
	if f.enCurso {
		f.mu.Unlock()
		return nil, ErrCorridaEnCurso
	}
	f.enCurso = true
	f.ultimoAvance = 0
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.enCurso = false
		f.estado = EstadoInactivo
		f.mu.Unlock()
	}()

	f.cambiar(EstadoValidando)
	f.avanzar(5)
	if err := f.validar(modo, invitadoID, periodo, datos); err != nil {
		f.cambiar(EstadoFallo)
		f.notificador.Notificar("Generación", err.Error())
		return nil, err
	}

	f.cambiar(EstadoVerificandoCarga)
	f.avanzar(15)
	if !f.carga.Listo() {
		f.cambiar(EstadoFallo)
		f.notificador.Notificar("Generación", ErrArchivosNoCargados.Error())
		return nil, ErrArchivosNoCargados
	}

	f.cambiar(EstadoGenerando)
	f.bloqueador.Bloquear()
	defer f.bloqueador.Desbloquear()
	f.avanzar(30)

	var resultado *services.ResultadoGeneracion
	var err error
	if modo == services.ModoIndividual {
		resultado, err = f.ejecutor.GenerarIndividual(ctx, invitadoID, periodo, datos)
	} else {
		resultado, err = f.ejecutor.GenerarTodas(ctx, periodo, datos)
	}
	if err != nil {
		f.cambiar(EstadoFallo)
		f.notificador.Notificar("Error de generación", err.Error())
		return nil, err
	}

	f.avanzar(100)
	if len(resultado.Errores) > 0 {
		f.cambiar(EstadoExitoParcial)
		f.notificador.Notificar("Generación con errores",
			mensajeParcial(resultado))
	} else {
		f.cambiar(EstadoExito)
		f.notificador.Notificar("Generación terminada",
			mensajeExito(resultado))
	}
	return resultado, nil
}

// validar revisa las precondiciones que no necesitan red: primero los
// archivos base, luego la configuración del evento, al final el
// invitado seleccionado.
func (f *Flujo) validar(modo services.ModoGeneracion, invitadoID uint, periodo models.PeriodoEvento, datos models.DatosEvento) error {
	if !f.carga.Listo() {
		return ErrArchivosNoCargados
	}
	if !periodo.EsValido() || !datos.Completos() {
		return ErrConfiguracionIncompleta
	}
	if modo == services.ModoIndividual && invitadoID == 0 {
		return ErrInvitadoNoSeleccionado
	}
	return nil
}

// cambiar actualiza la fase visible.
func (f *Flujo) cambiar(estado Estado) {
	f.mu.Lock()
	f.estado = estado
	f.mu.Unlock()
}

// avanzar publica el avance, garantizando que nunca retrocede dentro
// de una misma corrida.
func (f *Flujo) avanzar(porcentaje int) {
	f.mu.Lock()
	if porcentaje < f.ultimoAvance {
		porcentaje = f.ultimoAvance
	}
	f.ultimoAvance = porcentaje
	f.mu.Unlock()
	f.progreso.Avance(porcentaje)
}

func mensajeExito(r *services.ResultadoGeneracion) string {
	return fmt.Sprintf("Se generaron %d dossiers en %s", r.Generados, r.CarpetaSalida)
}

func mensajeParcial(r *services.ResultadoGeneracion) string {
	return fmt.Sprintf("Se generaron %d dossiers; %d invitados fallaron. Carpeta: %s",
		r.Generados, len(r.Errores), r.CarpetaSalida)
}
