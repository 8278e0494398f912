// El shell de escritorio: lanza el backend como subproceso, espera a
// que el endpoint de salud responda y abre la interfaz en el navegador.
// Si el backend no llega a estar listo dentro del presupuesto de
// reintentos, la interfaz se abre igual en estado degradado.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fpit.app/configs/configslog"
)

const (
	maxIntentosSalud = 30
	esperaEntreSalud = 500 * time.Millisecond
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	servidorBin := flag.String("servidor", "./servidor", "Ruta del binario del backend")
	baseURL := flag.String("url", "http://127.0.0.1:5000", "Dirección base del backend")
	flag.Parse()

	backend := exec.Command(*servidorBin)
	backend.Stdout = os.Stdout
	backend.Stderr = os.Stderr
	if err := backend.Start(); err != nil {
		configslog.Log.Fatal("No se pudo lanzar el backend", zap.Error(err))
	}
	configslog.SLog.Infof("Backend lanzado (PID %d)", backend.Process.Pid)

	if esperarSalud(*baseURL) {
		configslog.SLog.Info("El backend respondió al chequeo de salud.")
	} else {
		configslog.SLog.Warn("El backend no respondió a tiempo; se abre la interfaz de todos modos.")
	}

	if err := abrirNavegador(*baseURL); err != nil {
		configslog.Log.Warn("No se pudo abrir el navegador", zap.Error(err))
		fmt.Printf("Abra manualmente: %s\n", *baseURL)
	}

	// El shell vive hasta que el usuario lo cierra; entonces apaga al
	// backend con SIGTERM y espera a que termine.
	senales := make(chan os.Signal, 1)
	signal.Notify(senales, syscall.SIGINT, syscall.SIGTERM)

	salida := make(chan error, 1)
	go func() { salida <- backend.Wait() }()

	select {
	case err := <-salida:
		if err != nil {
			configslog.Log.Error("El backend terminó por su cuenta", zap.Error(err))
			os.Exit(1)
		}
		configslog.SLog.Info("El backend terminó.")
	case s := <-senales:
		configslog.SLog.Infof("Señal %s recibida, apagando el backend...", s)
		_ = backend.Process.Signal(syscall.SIGTERM)
		select {
		case <-salida:
		case <-time.After(10 * time.Second):
			configslog.SLog.Warn("El backend no terminó a tiempo, se fuerza el cierre.")
			_ = backend.Process.Kill()
			<-salida
		}
	}
}

// esperarSalud consulta /api/health con un presupuesto acotado de
// reintentos y devuelve si el backend llegó a responder.
func esperarSalud(baseURL string) bool {
	cliente := &http.Client{Timeout: 2 * time.Second}
	for intento := 1; intento <= maxIntentosSalud; intento++ {
		resp, err := cliente.Get(baseURL + "/api/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		configslog.SLog.Debugf("Chequeo de salud %d/%d sin respuesta", intento, maxIntentosSalud)
		time.Sleep(esperaEntreSalud)
	}
	return false
}

func abrirNavegador(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
