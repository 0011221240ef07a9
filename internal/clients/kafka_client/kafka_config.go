package kafka_client

import "github.com/cdeia/observaciones/config"

type KafkaConfig struct {
	Broker       string
	GroupID      string
	RequestTopic string
	ResultTopic  string
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:       config.GetEnv("KAFKA_BROKER", "localhost:29092"),
		GroupID:      config.GetEnv("KAFKA_CONSUMER_GROUP_ID", "observaciones-worker"),
		RequestTopic: config.GetEnv("KAFKA_REQUEST_TOPIC", KAFKA_TOPIC_OBSERVATION_REQUESTS),
		ResultTopic:  config.GetEnv("KAFKA_RESULT_TOPIC", KAFKA_TOPIC_OBSERVATION_RESULTS),
	}
}
