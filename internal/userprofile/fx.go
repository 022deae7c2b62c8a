package userprofile

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("userprofile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
