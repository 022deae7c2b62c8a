package analytics

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.service",
	fx.Provide(service.New),
)
