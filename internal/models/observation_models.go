package models

import (
	"fmt"
	"strings"
	"time"
)

// MinProposals is how many proposals the scoring service must return for a
// response to be usable.
const MinProposals = 3

type ObservationRequest struct {
	Title    string
	Entity   string
	BodyText string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r ObservationRequest) Trimmed() ObservationRequest {
	return ObservationRequest{
		Title:    strings.TrimSpace(r.Title),
		Entity:   strings.TrimSpace(r.Entity),
		BodyText: strings.TrimSpace(r.BodyText),
	}
}

// ObservationPayload is the wire body. Field order is the key order on the
// wire and the service matches key names exactly.
type ObservationPayload struct {
	Resultados string `json:"resultados"`
	Titulo     string `json:"titulo"`
	Entidad    string `json:"entidad"`
}

func (r ObservationRequest) Payload() ObservationPayload {
	return ObservationPayload{
		Resultados: r.BodyText,
		Titulo:     r.Title,
		Entidad:    r.Entity,
	}
}

type ObservationResponse struct {
	Proposals []string
	Elapsed   time.Duration
}

// Displayed returns the proposals that are significant for rendering. Extra
// proposals beyond MinProposals are ignored.
func (r *ObservationResponse) Displayed() []string {
	if r == nil {
		return nil
	}
	if len(r.Proposals) > MinProposals {
		return r.Proposals[:MinProposals]
	}
	return r.Proposals
}

// MissingFieldError reports the first required field that is empty after
// trimming. Field carries the wire name of the field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Validate checks the fields in form order: title, entity, body text.
func (r ObservationRequest) Validate() error {
	t := r.Trimmed()
	switch {
	case t.Title == "":
		return &MissingFieldError{Field: "titulo"}
	case t.Entity == "":
		return &MissingFieldError{Field: "entidad"}
	case t.BodyText == "":
		return &MissingFieldError{Field: "resultados"}
	}
	return nil
}
