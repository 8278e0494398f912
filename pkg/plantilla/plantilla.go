// Package plantilla renderiza el cuerpo de la carta de invitación
// sustituyendo marcadores con los datos del invitado y del evento.
// El renderizado es puro: mismas entradas, misma salida.
package plantilla

import (
	"fmt"
	"strings"
	"time"

	"fpit.app/models"
)

// PlantillaCarta es la plantilla base de la carta. Los marcadores usan
// la misma sintaxis que la plantilla DOCX que el usuario carga, de modo
// que el colaborador de ensamblado pueda aplicar el mismo contexto.
const PlantillaCarta = `{{fecha_carta}}

{{nombre_completo}}
{{cargo_1}}
{{organizacion_1}}

Por medio de la presente nos es grato extenderle una cordial invitación
para participar en la {{edicion_evento}}, en calidad de
{{caracter_invitacion}}, a celebrarse el {{fecha_evento}}.

Agradecemos de antemano su valiosa participación.

Atentamente,

{{nombre_firmante}}
{{cargo_firmante}}`

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatearFechaLarga convierte una fecha ISO (2006-01-02) a su forma
// larga en español: "2 de enero de 2006". Si la entrada no es una fecha
// ISO válida se devuelve tal cual, sin inventar un formato.
func FormatearFechaLarga(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}

// Render sustituye los marcadores de la plantilla con los datos del
// invitado y del evento. Los campos del invitado ausentes se resuelven
// a cadena vacía; los campos del evento sin configurar, a una etiqueta
// entre corchetes. Nunca queda un marcador conocido sin resolver.
func Render(texto string, inv *models.Invitado, datos models.DatosEvento) string {
	pares := make([]string, 0, 2*16)

	agregar := func(marcador, valor string) {
		pares = append(pares, "{{"+marcador+"}}", valor)
	}
	// Campo del evento: si no está configurado se muestra la etiqueta.
	agregarEvento := func(marcador, valor, etiqueta string) {
		if valor == "" {
			valor = "[" + etiqueta + "]"
		}
		agregar(marcador, valor)
	}

	agregar("nombre_completo", inv.NombreCompleto)
	agregar("caracter_invitacion", inv.CaracterInvitacion)
	agregar("motivo_invitacion", inv.CaracterInvitacion)

	for i := 1; i <= models.MaxPuestos; i++ {
		cargo, org := "", ""
		for idx := range inv.Puestos {
			if inv.Puestos[idx].Orden == i {
				cargo = inv.Puestos[idx].Cargo
				org = inv.Puestos[idx].Organizacion
				break
			}
		}
		agregar(fmt.Sprintf("cargo_%d", i), cargo)
		agregar(fmt.Sprintf("organizacion_%d", i), org)
	}

	agregarEvento("edicion_evento", datos.EdicionEvento, "edición del evento")
	agregarEvento("fecha_evento", formatearSiPresente(datos.FechaEvento), "fecha del evento")
	agregarEvento("fecha_carta", formatearSiPresente(datos.FechaCarta), "fecha de la carta")
	agregarEvento("nombre_firmante", datos.NombreFirmante, "nombre del firmante")
	agregarEvento("cargo_firmante", datos.CargoFirmante, "cargo del firmante")

	return strings.NewReplacer(pares...).Replace(texto)
}

func formatearSiPresente(iso string) string {
	if iso == "" {
		return ""
	}
	return FormatearFechaLarga(iso)
}
