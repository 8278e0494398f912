package configsdatabase

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fpit.app/configs/configslog"
)

var db *gorm.DB

// InitDB abre la conexión a la base de datos usando las variables de
// entorno FPIT_DB_*. DATABASE_URL tiene prioridad si está definida.
func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			getenv("FPIT_DB_HOST", "127.0.0.1"),
			getenv("FPIT_DB_PORT", "5432"),
			getenv("FPIT_DB_USER", "fpit"),
			getenv("FPIT_DB_PASSWORD", ""),
			getenv("FPIT_DB_NAME", "fpit"),
			getenv("FPIT_DB_SSLMODE", "disable"),
		)
	}

	conexion, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		configslog.Log.Fatal("No se pudo conectar a la base de datos", zap.Error(err))
	}

	sqlDB, err := conexion.DB()
	if err != nil {
		configslog.Log.Fatal("No se pudo obtener el pool de conexiones", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = conexion
	configslog.SLog.Info("Conexión a la base de datos establecida.")
}

// GetDB devuelve la conexión activa. InitDB debe haberse llamado antes.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("GetDB llamado antes de InitDB")
	}
	return db
}

// CloseDB cierra el pool de conexiones.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("No se pudo obtener el pool para cerrarlo", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Error al cerrar la conexión a la base de datos", zap.Error(err))
	}
}

func getenv(clave, porDefecto string) string {
	if v := os.Getenv(clave); v != "" {
		return v
	}
	return porDefecto
}
