package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cdeia/observaciones/internal/clients"
	"github.com/cdeia/observaciones/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	resp      *models.ObservationResponse
	err       error
	healthy   bool
	healthMsg string
	calls     int
}

func (f *fakeService) Submit(_ context.Context, title, entity, text string) (*models.ObservationResponse, error) {
	f.calls++
	if err := (models.ObservationRequest{Title: title, Entity: entity, BodyText: text}).Validate(); err != nil {
		return nil, err
	}
	return f.resp, f.err
}

func (f *fakeService) ProbeHealth(context.Context) (bool, string) {
	return f.healthy, f.healthMsg
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return serve(t, s, req)
}

func TestCreateObservations_Success(t *testing.T) {
	svc := &fakeService{resp: &models.ObservationResponse{
		Proposals: []string{"a", "b", "c", "d"},
		Elapsed:   1200 * time.Millisecond,
	}}
	s := New(svc, nil)

	rec := postJSON(t, s, "/api/observaciones", `{"titulo":"t","entidad":"e","resultados":"x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got observationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"a", "b", "c"}, got.Propuestas)
	assert.Equal(t, int64(1200), got.ElapsedMS)
}

func TestCreateObservations_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantKind string
	}{
		{"invalid json", `{`, nil, http.StatusBadRequest, "invalid_request"},
		{"missing field", `{"titulo":"t","entidad":"","resultados":"x"}`, nil, http.StatusBadRequest, "validation_error"},
		{"configuration", `{"titulo":"t","entidad":"e","resultados":"x"}`, &clients.ConfigurationError{Reason: "missing"}, http.StatusInternalServerError, "configuration_error"},
		{"status", `{"titulo":"t","entidad":"e","resultados":"x"}`, &clients.RequestError{Err: &clients.HTTPStatusError{Code: 404, Body: map[string]any{"detail": "not found"}}}, http.StatusBadGateway, "http_status_error"},
		{"connection", `{"titulo":"t","entidad":"e","resultados":"x"}`, &clients.RequestError{Err: &clients.ConnectionError{Reason: "refused"}}, http.StatusServiceUnavailable, "connection_error"},
		{"timeout", `{"titulo":"t","entidad":"e","resultados":"x"}`, &clients.RequestError{Err: &clients.TimeoutError{Timeout: time.Second}}, http.StatusGatewayTimeout, "timeout_error"},
		{"malformed", `{"titulo":"t","entidad":"e","resultados":"x"}`, &clients.RequestError{Err: &clients.MalformedResponseError{Reason: "short", RawBody: []any{"a"}}}, http.StatusBadGateway, "malformed_response_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&fakeService{err: tc.err}, nil)

			rec := postJSON(t, s, "/api/observaciones", tc.body)

			assert.Equal(t, tc.wantCode, rec.Code)
			var got struct {
				Error apiError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.wantKind, got.Error.Kind)
			assert.NotEmpty(t, got.Error.Message)
		})
	}
}

func TestCreateObservations_StatusErrorKeepsBody(t *testing.T) {
	err := &clients.RequestError{
		Elapsed: 3 * time.Second,
		Err:     &clients.HTTPStatusError{Code: 404, Body: map[string]any{"detail": "not found"}},
	}
	s := New(&fakeService{err: err}, nil)

	rec := postJSON(t, s, "/api/observaciones", `{"titulo":"t","entidad":"e","resultados":"x"}`)

	var got struct {
		Error apiError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 404, got.Error.Status)
	assert.Equal(t, map[string]any{"detail": "not found"}, got.Error.Body)
	assert.Equal(t, int64(3000), got.Error.ElapsedMS)
	assert.Equal(t, "service", got.Error.Class)
}

func TestHealth(t *testing.T) {
	var last atomic.Bool
	last.Store(true)

	s := New(&fakeService{healthy: false, healthMsg: "API respondió con código 503"}, &last)
	rec := serve(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, false, got["available"])
	assert.Equal(t, "API respondió con código 503", got["message"])
	assert.Equal(t, true, got["last_known"])

	s = New(&fakeService{healthy: true, healthMsg: "API disponible"}, nil)
	rec = serve(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShowForm_SeedsExampleOnRequest(t *testing.T) {
	s := New(&fakeService{healthy: true, healthMsg: "API disponible"}, nil)

	rec := serve(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Generar Observación")
	assert.NotContains(t, rec.Body.String(), "Municipalidad Distrital de Ejemplo")

	rec = serve(t, s, httptest.NewRequest(http.MethodGet, "/?ejemplo=1", nil))
	assert.Contains(t, rec.Body.String(), "Municipalidad Distrital de Ejemplo")
}

func TestSubmitForm_RendersCardsAndClearsFields(t *testing.T) {
	svc := &fakeService{
		healthy: true,
		resp: &models.ObservationResponse{
			Proposals: []string{"**uno**", "dos", "tres", "cuatro"},
			Elapsed:   time.Second,
		},
	}
	s := New(svc, nil)

	form := url.Values{"titulo": {"Título enviado"}, "entidad": {"e"}, "resultados": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(t, s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Propuesta 3")
	assert.NotContains(t, body, "Propuesta 4")
	assert.Contains(t, body, "<strong>uno</strong>")
	assert.Contains(t, body, "1 palabras")
	assert.NotContains(t, body, "Título enviado")
}

func TestSubmitForm_MissingFieldSkipsService(t *testing.T) {
	svc := &fakeService{healthy: true}
	s := New(svc, nil)

	form := url.Values{"titulo": {"t"}, "entidad": {"e"}, "resultados": {"  "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(t, s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "texto de resultados")
	assert.Zero(t, svc.calls)
}
