package food

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/service"
	"go.uber.org/fx"
)

var Module = fx.Module("food.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
