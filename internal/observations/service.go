// Package observations is the entry point the surrounding surfaces (CLI, web
// form, worker) use to reach the scoring service.
package observations

import (
	"context"
	"time"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/clients"
	"github.com/cdeia/observaciones/internal/models"
	"github.com/cdeia/observaciones/internal/monitoring"
)

type Submitter interface {
	Submit(ctx context.Context, req models.ObservationRequest, creds config.Credentials) (*models.ObservationResponse, error)
}

type Service struct {
	client      Submitter
	probe       monitoring.Prober
	credentials config.CredentialResolver
}

func NewService(client Submitter, probe monitoring.Prober, credentials config.CredentialResolver) *Service {
	if credentials == nil {
		credentials = config.ResolveCredentials
	}
	return &Service{
		client:      client,
		probe:       probe,
		credentials: credentials,
	}
}

// NewDefaultService wires the client and probe against baseURL with
// credentials read from the environment on every call.
func NewDefaultService(baseURL string, probeTimeout time.Duration) *Service {
	probe := monitoring.NewHealthProbe(baseURL)
	if probeTimeout > 0 {
		probe.Timeout = probeTimeout
	}
	return NewService(clients.NewObservationClient(baseURL), probe, config.ResolveCredentials)
}

// Submit validates the trimmed fields, resolves credentials for this call and
// sends the request.
func (s *Service) Submit(ctx context.Context, title, entity, text string) (*models.ObservationResponse, error) {
	req := models.ObservationRequest{Title: title, Entity: entity, BodyText: text}.Trimmed()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.client.Submit(ctx, req, s.credentials())
}

// SubmitObservationRequest returns the proposals significant for display.
func (s *Service) SubmitObservationRequest(ctx context.Context, title, entity, text string) ([]string, error) {
	resp, err := s.Submit(ctx, title, entity, text)
	if err != nil {
		return nil, err
	}
	return resp.Displayed(), nil
}

func (s *Service) ProbeHealth(ctx context.Context) (bool, string) {
	return s.probe.Check(ctx)
}

func (s *Service) Prober() monitoring.Prober {
	return s.probe
}
