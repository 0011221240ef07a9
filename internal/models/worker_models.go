package models

type (
	ObservationMessage struct {
		RequestID  string `json:"request_id"`
		Titulo     string `json:"titulo"`
		Entidad    string `json:"entidad"`
		Resultados string `json:"resultados"`
	}

	ObservationResult struct {
		RequestID  string                  `json:"request_id"`
		Propuestas []string                `json:"propuestas,omitempty"`
		ElapsedMS  int64                   `json:"elapsed_ms"`
		Error      *ObservationResultError `json:"error,omitempty"`
	}

	ObservationResultError struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
)

func (m ObservationMessage) Request() ObservationRequest {
	return ObservationRequest{
		Title:    m.Titulo,
		Entity:   m.Entidad,
		BodyText: m.Resultados,
	}
}
