package core

import (
	"context"

	"github.com/rs/zerolog"

	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

type ServiceContext struct {
	Context   context.Context
	Logger    zerolog.Logger
	Simulator *MonteCarloSimulator
	Defaults  sm.AnalysisRequestSettings
}

// NewServiceContext wires the simulator to the given logger, defaults fill
// request settings that the caller leaves unset. ctx bounds every analysis
// served over HTTP.
func NewServiceContext(ctx context.Context, log zerolog.Logger, defaults sm.AnalysisRequestSettings) *ServiceContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ServiceContext{
		Context:   ctx,
		Logger:    log,
		Simulator: NewMonteCarloSimulator(log),
		Defaults:  defaults.WithDefaults(),
	}
}
