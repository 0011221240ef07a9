package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/clients"
	"github.com/cdeia/observaciones/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var fieldLabels = map[string]string{
	"titulo":     "título",
	"entidad":    "entidad",
	"resultados": "texto de resultados",
}

// FailureMessage describes err for the person using the form.
func FailureMessage(err error) string {
	var (
		missing   *models.MissingFieldError
		cfgErr    *clients.ConfigurationError
		statusErr *clients.HTTPStatusError
		connErr   *clients.ConnectionError
		toErr     *clients.TimeoutError
		malformed *clients.MalformedResponseError
		unexpErr  *clients.UnexpectedError
	)

	var msg string
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		msg = fmt.Sprintf("Por favor, completa el campo %s.", label(missing.Field))
	case errors.As(err, &cfgErr):
		msg = fmt.Sprintf("La API Key no está configurada. Define %s en el entorno.\nDetalle: %s", config.API_KEY_ENV, cfgErr.Reason)
	case errors.As(err, &statusErr):
		msg = fmt.Sprintf("La petición a la API falló con código %d.\nDetalles: %s", statusErr.Code, Pretty(statusErr.Body))
	case errors.As(err, &connErr):
		msg = fmt.Sprintf("No se pudo conectar con la API: %s", connErr.Reason)
	case errors.As(err, &toErr):
		msg = fmt.Sprintf("La API no respondió en %s. Intenta enviar la solicitud nuevamente.", FormatElapsed(toErr.Timeout))
	case errors.As(err, &malformed):
		msg = fmt.Sprintf("La estructura de datos de la API no es la esperada (%s).\nDatos recibidos de la API (para depuración):\n%s", malformed.Reason, Pretty(malformed.RawBody))
	case errors.As(err, &unexpErr):
		msg = fmt.Sprintf("Ocurrió un error inesperado: %s", unexpErr.Detail)
	default:
		msg = fmt.Sprintf("Ocurrió un error inesperado: %v", err)
	}

	if elapsed, ok := clients.ElapsedOf(err); ok {
		msg += "\nTiempo transcurrido: " + FormatElapsed(elapsed)
	}
	return msg
}

// Failure is FailureMessage styled for the terminal.
func Failure(err error) string {
	if errors.As(err, new(*models.MissingFieldError)) {
		return warnStyle.Render(FailureMessage(err))
	}
	lines := strings.SplitN(FailureMessage(err), "\n", 2)
	out := errorStyle.Render(lines[0])
	if len(lines) > 1 {
		out += "\n" + debugStyle.Render(lines[1])
	}
	return out
}

// Pretty renders a diagnostic payload: decoded JSON is indented, text is
// returned as is.
func Pretty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2f s", d.Seconds())
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

var okStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

func Available(msg string) string {
	return okStyle.Render("✔ " + msg)
}

func Unavailable(msg string) string {
	return errorStyle.Render("✘ " + msg)
}
