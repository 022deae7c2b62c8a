package aiusage

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("aiusage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
