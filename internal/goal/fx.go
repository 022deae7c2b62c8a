package goal

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("goal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
