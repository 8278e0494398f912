package configs

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fpit.app/configs/configslog"
)

// Config reúne la configuración de la aplicación leída del entorno.
type Config struct {
	// Dirección de escucha del backend. El shell de escritorio asume
	// loopback, así que el valor por defecto no expone nada hacia fuera.
	ListenAddr string

	// Identidad fija del firmante de las cartas.
	NombreFirmante string
	CargoFirmante  string

	// RaizSalida es el directorio bajo el cual se crean las carpetas
	// "{anio}.{numero}-invitaciones". Por defecto, el Escritorio del usuario.
	RaizSalida string

	// Directorio de trabajo para archivos base subidos y temporales.
	DirTrabajo string

	// Binarios externos del ensamblado de dossiers.
	ConvertidorPDF string
	UnidorPDF      string
}

// LoadEnv carga el archivo .env si existe. Su ausencia no es un error:
// en producción las variables llegan por el entorno del proceso.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Info("No se encontró archivo .env, se usa el entorno del proceso.")
	}
}

// GetEnv devuelve el valor de la variable o el valor por defecto.
func GetEnv(clave, porDefecto string) string {
	if v := os.Getenv(clave); v != "" {
		return v
	}
	return porDefecto
}

// Cargar construye la configuración de la aplicación desde el entorno.
func Cargar() Config {
	cfg := Config{
		ListenAddr:     GetEnv("FPIT_ADDR", "127.0.0.1:5000"),
		NombreFirmante: GetEnv("FPIT_FIRMANTE_NOMBRE", ""),
		CargoFirmante:  GetEnv("FPIT_FIRMANTE_CARGO", ""),
		RaizSalida:     GetEnv("FPIT_RAIZ_SALIDA", ""),
		DirTrabajo:     GetEnv("FPIT_DIR_TRABAJO", ""),
		ConvertidorPDF: GetEnv("FPIT_CONVERTIDOR_PDF", "soffice"),
		UnidorPDF:      GetEnv("FPIT_UNIDOR_PDF", "pdfunite"),
	}

	if cfg.RaizSalida == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			configslog.SLog.Warnf("No se pudo determinar el directorio del usuario: %v", err)
			home = "."
		}
		cfg.RaizSalida = filepath.Join(home, "Desktop")
	}
	if cfg.DirTrabajo == "" {
		cfg.DirTrabajo = filepath.Join(os.TempDir(), "fpit-trabajo")
	}
	return cfg
}
