package workout

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workout.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
