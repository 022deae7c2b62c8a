package suggestion

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/suggestion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("suggestion.service",
	fx.Provide(service.New),
)
