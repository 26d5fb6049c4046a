package config

import (
	"code.ospreymarkets.io/osprey/broker"
	"code.ospreymarkets.io/osprey/execution"
	"code.ospreymarkets.io/osprey/matching"
	"code.ospreymarkets.io/osprey/metrics"
)

// Config ties together all the configuration of the exchange's packages.
type Config struct {
	Broker    broker.Config
	Execution execution.Config
	Matching  matching.Config
	Metrics   metrics.Config
}

// NewDefaultConfig returns a set of default configs for all the packages
// composing the exchange.
func NewDefaultConfig() Config {
	return Config{
		Broker:    broker.NewDefaultConfig(),
		Execution: execution.NewDefaultConfig(),
		Matching:  matching.NewDefaultConfig(),
		Metrics:   metrics.NewDefaultConfig(),
	}
}
