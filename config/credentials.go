package config

import (
	"os"
	"strings"
)

const (
	API_KEY_ENV        = "OBSERVACIONES_API_KEY"
	LEGACY_API_KEY_ENV = "API_KEY_AZURE"
)

// BaseURL is the root of the hosted scoring service. It is fixed at build time:
//
//	go build -ldflags "-X github.com/cdeia/observaciones/config.BaseURL=https://..."
var BaseURL = "https://pruebacapacitacion-0621-xsxjf.eastus2.inference.ml.azure.com"

// Credentials are handed explicitly to the observation client. They are
// resolved per call and never cached.
type Credentials struct {
	Token string
}

func (c Credentials) Empty() bool {
	return strings.TrimSpace(c.Token) == ""
}

// CredentialResolver produces the credentials for a single call.
type CredentialResolver func() Credentials

// ResolveCredentials reads the bearer token from the environment.
func ResolveCredentials() Credentials {
	token := os.Getenv(API_KEY_ENV)
	if strings.TrimSpace(token) == "" {
		token = os.Getenv(LEGACY_API_KEY_ENV)
	}
	return Credentials{Token: strings.TrimSpace(token)}
}

// StaticCredentials returns a resolver that always yields token, trimmed.
func StaticCredentials(token string) CredentialResolver {
	token = strings.TrimSpace(token)
	return func() Credentials {
		return Credentials{Token: token}
	}
}
