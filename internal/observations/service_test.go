package observations

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/clients"
	"github.com/cdeia/observaciones/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	calls   int
	gotReq  models.ObservationRequest
	gotCred config.Credentials
	resp    *models.ObservationResponse
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, req models.ObservationRequest, creds config.Credentials) (*models.ObservationResponse, error) {
	f.calls++
	f.gotReq = req
	f.gotCred = creds
	return f.resp, f.err
}

type fakeProber struct{}

func (fakeProber) Check(context.Context) (bool, string) { return true, "API disponible" }

func TestSubmitObservationRequest_TrimsAndReturnsFirstThree(t *testing.T) {
	fake := &fakeSubmitter{resp: &models.ObservationResponse{Proposals: []string{"a", "b", "c", "d"}}}
	svc := NewService(fake, fakeProber{}, config.StaticCredentials("tok"))

	proposals, err := svc.SubmitObservationRequest(context.Background(), " t ", "e", " texto\n")

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, proposals)
	assert.Equal(t, models.ObservationRequest{Title: "t", Entity: "e", BodyText: "texto"}, fake.gotReq)
	assert.Equal(t, "tok", fake.gotCred.Token)
}

func TestSubmit_RejectsEmptyFieldsBeforeCalling(t *testing.T) {
	fake := &fakeSubmitter{}
	svc := NewService(fake, fakeProber{}, config.StaticCredentials("tok"))

	_, err := svc.SubmitObservationRequest(context.Background(), "t", "", "texto")

	var missing *models.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Zero(t, fake.calls)
}

func TestSubmit_ResolvesCredentialsPerCall(t *testing.T) {
	fake := &fakeSubmitter{resp: &models.ObservationResponse{Proposals: []string{"a", "b", "c"}}}
	tokens := []string{"first", "second"}
	calls := 0
	svc := NewService(fake, fakeProber{}, func() config.Credentials {
		tok := tokens[calls]
		calls++
		return config.Credentials{Token: tok}
	})

	_, err := svc.Submit(context.Background(), "t", "e", "x")
	require.NoError(t, err)
	assert.Equal(t, "first", fake.gotCred.Token)

	_, err = svc.Submit(context.Background(), "t", "e", "x")
	require.NoError(t, err)
	assert.Equal(t, "second", fake.gotCred.Token)
}

func TestDefaultService_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/generate-observaciones":
			if r.Header.Get("Authorization") != "Bearer env-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"propuestas": {"propuestas": ["uno", "dos", "tres"]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	t.Setenv(config.API_KEY_ENV, "env-token")
	svc := NewDefaultService(srv.URL, time.Second)

	ok, msg := svc.ProbeHealth(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "API disponible", msg)

	proposals, err := svc.SubmitObservationRequest(context.Background(), "t", "e", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"uno", "dos", "tres"}, proposals)
}

func TestDefaultService_MissingCredential(t *testing.T) {
	t.Setenv(config.API_KEY_ENV, "")
	t.Setenv(config.LEGACY_API_KEY_ENV, "")
	svc := NewDefaultService("http://127.0.0.1:1", time.Second)

	_, err := svc.SubmitObservationRequest(context.Background(), "t", "e", "x")

	var cfgErr *clients.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
