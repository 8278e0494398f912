package plantilla

import (
	"strings"
	"testing"

	"fpit.app/models"
)

func datosCompletos() models.DatosEvento {
	return models.DatosEvento{
		EdicionEvento:  "XII Feria de Proyectos",
		FechaEvento:    "2024-05-02",
		FechaCarta:     "2024-04-15",
		NombreFirmante: "Dra. Carmen Salas",
		CargoFirmante:  "Coordinadora Académica",
	}
}

func invitadoCompleto() *models.Invitado {
	return &models.Invitado{
		NombreCompleto:     "Juan Pérez",
		CaracterInvitacion: "asesor técnico",
		Puestos: []models.InvitadoPuesto{
			{Orden: 1, Cargo: "Docente", Organizacion: "ITM"},
			{Orden: 2, Cargo: "Investigador", Organizacion: "CONACYT"},
		},
	}
}

func TestRenderSinMarcadoresResiduales(t *testing.T) {
	salida := Render(PlantillaCarta, invitadoCompleto(), datosCompletos())

	if strings.Contains(salida, "{{") || strings.Contains(salida, "}}") {
		t.Errorf("la salida contiene marcadores sin resolver:\n%s", salida)
	}
	for _, esperado := range []string{
		"Juan Pérez",
		"asesor técnico",
		"Docente",
		"ITM",
		"2 de mayo de 2024",
		"15 de abril de 2024",
		"Dra. Carmen Salas",
	} {
		if !strings.Contains(salida, esperado) {
			t.Errorf("la salida no contiene %q", esperado)
		}
	}
}

func TestRenderCamposDelInvitadoAusentes(t *testing.T) {
	inv := &models.Invitado{NombreCompleto: "Ana Ruiz", CaracterInvitacion: "jurado"}
	salida := Render("[{{cargo_1}}][{{organizacion_3}}]", inv, datosCompletos())

	// Campos del invitado sin datos resuelven a cadena vacía, no a la
	// etiqueta ni al marcador literal.
	if salida != "[][]" {
		t.Errorf("Render() = %q, se esperaba \"[][]\"", salida)
	}
}

func TestRenderEventoSinConfigurar(t *testing.T) {
	salida := Render("{{edicion_evento}} / {{fecha_evento}}", invitadoCompleto(), models.DatosEvento{})

	if !strings.Contains(salida, "[edición del evento]") {
		t.Errorf("falta la etiqueta de edición: %q", salida)
	}
	if !strings.Contains(salida, "[fecha del evento]") {
		t.Errorf("falta la etiqueta de fecha: %q", salida)
	}
}

func TestRenderEsDeterminista(t *testing.T) {
	inv := invitadoCompleto()
	datos := datosCompletos()
	a := Render(PlantillaCarta, inv, datos)
	b := Render(PlantillaCarta, inv, datos)
	if a != b {
		t.Error("Render() no es determinista para entradas idénticas")
	}
}

func TestFormatearFechaLarga(t *testing.T) {
	tt := []struct {
		entrada string
		want    string
	}{
		{"2024-05-02", "2 de mayo de 2024"},
		{"2025-12-31", "31 de diciembre de 2025"},
		{"2023-01-01", "1 de enero de 2023"},
		// Entradas no ISO se devuelven sin tocar.
		{"mañana", "mañana"},
		{"", ""},
	}
	for _, tc := range tt {
		if got := FormatearFechaLarga(tc.entrada); got != tc.want {
			t.Errorf("FormatearFechaLarga(%q) = %q, se esperaba %q", tc.entrada, got, tc.want)
		}
	}
}
