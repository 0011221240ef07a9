// Package form holds the caller-owned input state behind the observation form.
package form

import (
	"strings"
	"unicode/utf8"

	"github.com/cdeia/observaciones/internal/models"
)

// Example values offered the first time the form is shown.
const (
	ExampleTitle  = "Deficiencias en el control de pagos"
	ExampleEntity = "Municipalidad Distrital de Ejemplo"
	ExampleText   = "Se verificó que 12 comprobantes de pago por un total de S/ 48 500 no cuentan con la documentación sustentatoria exigida por la directiva de tesorería vigente."
)

type Form struct {
	Title  string
	Entity string
	Text   string

	seedUsed bool
}

// SeedExample fills the form with the example values. It only works once per
// Form; later calls are no-ops and return false.
func (f *Form) SeedExample() bool {
	if f.seedUsed {
		return false
	}
	f.seedUsed = true
	f.Title = ExampleTitle
	f.Entity = ExampleEntity
	f.Text = ExampleText
	return true
}

// Clear empties every field. A consumed seed stays consumed.
func (f *Form) Clear() {
	f.Title = ""
	f.Entity = ""
	f.Text = ""
}

func (f *Form) Request() models.ObservationRequest {
	return models.ObservationRequest{
		Title:    f.Title,
		Entity:   f.Entity,
		BodyText: f.Text,
	}.Trimmed()
}

// Validate reports the first empty field as a *models.MissingFieldError.
func (f *Form) Validate() error {
	return f.Request().Validate()
}

type TextStats struct {
	Words int
	Chars int
}

// Stats counts whitespace-delimited words and code points.
func Stats(s string) TextStats {
	return TextStats{
		Words: len(strings.Fields(s)),
		Chars: utf8.RuneCountInString(s),
	}
}
