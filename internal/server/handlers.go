package server

import (
	"errors"
	"net/http"

	"github.com/cdeia/observaciones/internal/clients"
	"github.com/cdeia/observaciones/internal/form"
	"github.com/cdeia/observaciones/internal/render"
	"github.com/gin-gonic/gin"
)

type observationRequest struct {
	Titulo     string `json:"titulo"`
	Entidad    string `json:"entidad"`
	Resultados string `json:"resultados"`
}

type observationResponse struct {
	Propuestas []string `json:"propuestas"`
	ElapsedMS  int64    `json:"elapsed_ms"`
}

type apiError struct {
	Kind      string `json:"kind"`
	Class     string `json:"class"`
	Message   string `json:"message"`
	Status    int    `json:"status,omitempty"`
	Body      any    `json:"body,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
}

type pageData struct {
	Form          form.Form
	Proposals     []string
	Elapsed       string
	Error         string
	Healthy       bool
	HealthMessage string
}

func (s *Server) showForm(c *gin.Context) {
	var f form.Form
	if c.Query("ejemplo") != "" {
		f.SeedExample()
	}
	c.HTML(http.StatusOK, "index", s.page(c, f))
}

func (s *Server) submitForm(c *gin.Context) {
	f := form.Form{
		Title:  c.PostForm("titulo"),
		Entity: c.PostForm("entidad"),
		Text:   c.PostForm("resultados"),
	}
	data := s.page(c, f)

	if err := f.Validate(); err != nil {
		data.Error = render.FailureMessage(err)
		c.HTML(http.StatusBadRequest, "index", data)
		return
	}

	resp, err := s.svc.Submit(c.Request.Context(), f.Title, f.Entity, f.Text)
	if err != nil {
		data.Error = render.FailureMessage(err)
		c.HTML(statusFor(err), "index", data)
		return
	}

	data.Proposals = resp.Displayed()
	data.Elapsed = render.FormatElapsed(resp.Elapsed)
	data.Form.Clear()
	c.HTML(http.StatusOK, "index", data)
}

func (s *Server) createObservations(c *gin.Context) {
	var req observationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apiError{
			Kind:    "invalid_request",
			Class:   string(clients.ClassInput),
			Message: err.Error(),
		}})
		return
	}

	resp, err := s.svc.Submit(c.Request.Context(), req.Titulo, req.Entidad, req.Resultados)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": toAPIError(err)})
		return
	}

	c.JSON(http.StatusOK, observationResponse{
		Propuestas: resp.Displayed(),
		ElapsedMS:  resp.Elapsed.Milliseconds(),
	})
}

func (s *Server) health(c *gin.Context) {
	ok, msg := s.svc.ProbeHealth(c.Request.Context())
	body := gin.H{"available": ok, "message": msg}
	if s.healthy != nil {
		body["last_known"] = s.healthy.Load()
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}

func (s *Server) page(c *gin.Context, f form.Form) pageData {
	data := pageData{Form: f}
	if s.healthy != nil {
		data.Healthy = s.healthy.Load()
	} else {
		data.Healthy, data.HealthMessage = s.svc.ProbeHealth(c.Request.Context())
	}
	if data.HealthMessage == "" {
		data.HealthMessage = "API no disponible"
		if data.Healthy {
			data.HealthMessage = "API disponible"
		}
	}
	return data
}

func toAPIError(err error) apiError {
	out := apiError{
		Kind:    clients.Kind(err),
		Class:   string(clients.Classify(err)),
		Message: render.FailureMessage(err),
	}

	var (
		statusErr *clients.HTTPStatusError
		malformed *clients.MalformedResponseError
	)
	switch {
	case errors.As(err, &statusErr):
		out.Status = statusErr.Code
		out.Body = statusErr.Body
	case errors.As(err, &malformed):
		out.Body = malformed.RawBody
	}
	if elapsed, ok := clients.ElapsedOf(err); ok {
		out.ElapsedMS = elapsed.Milliseconds()
	}
	return out
}

func statusFor(err error) int {
	switch clients.Kind(err) {
	case "validation_error":
		return http.StatusBadRequest
	case "configuration_error":
		return http.StatusInternalServerError
	case "connection_error":
		return http.StatusServiceUnavailable
	case "timeout_error":
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
