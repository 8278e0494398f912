package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log es el logger estructurado de la aplicación.
// SLog es su variante "sugared" para mensajes con formato.
// Arrancan como no-op hasta que main llama a InitLogger.
var (
	Log  = zap.NewNop()
	SLog = zap.NewNop().Sugar()
)

// InitLogger inicializa los loggers globales. Con FPIT_ENTORNO=produccion
// se usa la configuración de producción (JSON); en otro caso, la de
// desarrollo (consola legible).
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("FPIT_ENTORNO") == "produccion" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		// Sin logger no hay nada que hacer: salimos con el error en stderr.
		panic("no se pudo inicializar el logger: " + err.Error())
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger vuelca los buffers pendientes. Llamar con defer desde main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
