package kafka_client

import "time"

const (
	KAFKA_TOPIC_OBSERVATION_REQUESTS = "observation-requests" // observation requests submitted by other services
	KAFKA_TOPIC_OBSERVATION_RESULTS  = "observation-results"  // proposals or typed failures, keyed by request id
)

const (
	MAX_RETRIES      = 5
	RETRY_DELAY      = 2 * time.Second
	POLL_TIMEOUT     = 1 * time.Second
	DELIVERY_TIMEOUT = 10 * time.Second
	FLUSH_TIMEOUT_MS = 5000
)
