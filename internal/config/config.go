package config

import "time"

type Config interface {
	EnvConfig
	GatewayConfig
}

type EnvConfig interface {
	GetAppName() string
	GetStateDir() string
	GetEnv() string
}

// GatewayConfig is the subset of configuration the API gateway client
// needs to talk to the seller console backend.
type GatewayConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
