package account

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
