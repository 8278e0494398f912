package models

import "fmt"

// PeriodoEvento identifica el periodo académico de una corrida de
// generación. No se persiste: llega con cada solicitud.
type PeriodoEvento struct {
	Anio   int `json:"anio"`
	Numero int `json:"periodo"`
}

// EsValido indica si ambos campos del periodo fueron configurados.
func (p PeriodoEvento) EsValido() bool {
	return p.Anio > 0 && p.Numero > 0
}

func (p PeriodoEvento) String() string {
	return fmt.Sprintf("%d.%d", p.Anio, p.Numero)
}

// DatosEvento metadatos constantes del evento para una corrida de
// generación. Las fechas llegan en formato ISO (2006-01-02) y el
// renderizador las convierte a forma larga en español.
type DatosEvento struct {
	EdicionEvento  string `json:"edicion_evento"`
	FechaEvento    string `json:"fecha_evento"`
	FechaCarta     string `json:"fecha_carta"`
	NombreFirmante string `json:"nombre_firmante,omitempty"`
	CargoFirmante  string `json:"cargo_firmante,omitempty"`
}

// Completos indica si los campos configurables por el usuario están
// presentes. El firmante se completa desde la configuración fija.
func (d DatosEvento) Completos() bool {
	return d.EdicionEvento != "" && d.FechaEvento != "" && d.FechaCarta != ""
}
