package clients

import "time"

const (
	OBSERVATIONS_PATH = "/generate-observaciones"
	USER_AGENT        = "observaciones-client/1.0 (+https://github.com/cdeia/observaciones)"
)

const (
	DefaultSubmitTimeout = 90 * time.Second
	rawPreviewLength     = 200
)
