package waterlog

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("waterlog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
