// Package nomenclatura deriva los nombres de archivo y carpeta de los
// dossiers generados. Todas las funciones son puras y deterministas.
package nomenclatura

import (
	"fmt"
	"regexp"
	"strings"

	"fpit.app/models"
)

// OrganizacionPorDefecto se usa cuando el invitado no tiene organización
// registrada, para no dejar el segmento vacío en el nombre del archivo.
const OrganizacionPorDefecto = "INVITADO"

var (
	// Caracteres no válidos en nombres de archivo de Windows; se
	// eliminan en lugar de reemplazarse.
	caracteresReservados = regexp.MustCompile(`[\\/*?:"<>|]`)
	espacios             = regexp.MustCompile(`\s+`)
)

// NombreArchivo deriva el nombre del dossier de un invitado:
//
//	{anio}.{numero}-FPiT-DOSSIER-{organizacion}-{nombre}.pdf
//
// Nombres de invitados distintos pueden colisionar tras la
// normalización; el último generado sobrescribe al anterior.
func NombreArchivo(periodo models.PeriodoEvento, inv *models.Invitado) string {
	nombre := Normalizar(inv.NombreCompleto)

	org := OrganizacionPorDefecto
	if p := inv.PuestoPrincipal(); p != nil {
		switch {
		case p.Abreviacion != "":
			org = p.Abreviacion
		case p.Organizacion != "":
			org = p.Organizacion
		}
	}
	org = Normalizar(org)

	return fmt.Sprintf("%d.%d-FPiT-DOSSIER-%s-%s.pdf", periodo.Anio, periodo.Numero, org, nombre)
}

// CarpetaSalida deriva el nombre de la carpeta destino de una corrida.
func CarpetaSalida(periodo models.PeriodoEvento) string {
	return fmt.Sprintf("%d.%d-invitaciones", periodo.Anio, periodo.Numero)
}

// Normalizar colapsa secuencias de espacios en uno solo, recorta los
// extremos y elimina caracteres reservados del sistema de archivos.
func Normalizar(s string) string {
	s = caracteresReservados.ReplaceAllString(s, "")
	s = espacios.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
