// Package dossier ensambla el paquete PDF de un invitado: la carta
// renderizada más la convocatoria y el cronograma, unidos en un solo
// documento. La conversión y la unión se delegan en binarios externos,
// igual que el sistema original delegaba en el conversor de Word.
package dossier

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fpit.app/configs/configslog"
)

// Solicitud datos para ensamblar el dossier de un invitado.
type Solicitud struct {
	// Carta es el cuerpo ya renderizado de la carta de invitación.
	Carta string
	// Rutas de los archivos base cargados.
	PlantillaDocx   string
	ConvocatoriaPdf string
	CronogramaPdf   string
	// Destino es la ruta final del PDF; el directorio se crea si no existe.
	Destino string
}

// Generador es el colaborador externo de ensamblado de documentos.
type Generador interface {
	Generar(ctx context.Context, sol Solicitud) error
}

// GeneradorExec implementa Generador invocando un conversor a PDF
// (soffice por defecto) y un unidor de PDFs (pdfunite por defecto).
type GeneradorExec struct {
	ConvertidorBin string
	UnidorBin      string
	DirTemporal    string
}

// NewGeneradorExec crea el generador con los binarios configurados.
func NewGeneradorExec(convertidor, unidor, dirTemporal string) *GeneradorExec {
	return &GeneradorExec{
		ConvertidorBin: convertidor,
		UnidorBin:      unidor,
		DirTemporal:    dirTemporal,
	}
}

// Generar escribe la carta, la convierte a PDF y la une con la
// convocatoria y el cronograma en el destino indicado. Los archivos
// temporales se retiran siempre, también en caso de error.
func (g *GeneradorExec) Generar(ctx context.Context, sol Solicitud) (err error) {
	if err := os.MkdirAll(g.DirTemporal, 0o755); err != nil {
		return fmt.Errorf("no se pudo crear el directorio temporal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sol.Destino), 0o755); err != nil {
		return fmt.Errorf("no se pudo crear la carpeta de salida: %w", err)
	}

	lote := uuid.NewString()
	cartaHTML := filepath.Join(g.DirTemporal, "carta_"+lote+".html")
	cartaPDF := filepath.Join(g.DirTemporal, "carta_"+lote+".pdf")

	defer func() {
		var limpieza error
		for _, ruta := range []string{cartaHTML, cartaPDF} {
			if e := os.Remove(ruta); e != nil && !os.IsNotExist(e) {
				limpieza = multierr.Append(limpieza, e)
			}
		}
		if limpieza != nil {
			configslog.Log.Warn("No se pudieron retirar temporales del dossier",
				zap.Error(limpieza))
		}
	}()

	if err := os.WriteFile(cartaHTML, []byte(envolverHTML(sol.Carta)), 0o644); err != nil {
		return fmt.Errorf("no se pudo escribir la carta temporal: %w", err)
	}

	// soffice nombra la salida según el archivo de entrada, por eso la
	// carta temporal ya lleva el nombre final del PDF intermedio.
	convertir := exec.CommandContext(ctx, g.ConvertidorBin,
		"--headless", "--convert-to", "pdf", "--outdir", g.DirTemporal, cartaHTML)
	if salida, err := convertir.CombinedOutput(); err != nil {
		return fmt.Errorf("conversión de la carta a PDF fallida: %w: %s",
			err, strings.TrimSpace(string(salida)))
	}
	if _, err := os.Stat(cartaPDF); err != nil {
		return fmt.Errorf("el conversor no produjo el PDF de la carta: %w", err)
	}

	unir := exec.CommandContext(ctx, g.UnidorBin,
		cartaPDF, sol.ConvocatoriaPdf, sol.CronogramaPdf, sol.Destino)
	if salida, err := unir.CombinedOutput(); err != nil {
		return fmt.Errorf("unión de PDFs fallida: %w: %s",
			err, strings.TrimSpace(string(salida)))
	}
	return nil
}

// envolverHTML envuelve el texto plano de la carta en un documento
// mínimo que el conversor pagina de forma predecible.
func envolverHTML(carta string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"></head>")
	b.WriteString("<body style=\"font-family: serif; white-space: pre-wrap;\">")
	reemplazos := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	b.WriteString(reemplazos.Replace(carta))
	b.WriteString("</body></html>")
	return b.String()
}

var _ Generador = (*GeneradorExec)(nil)
