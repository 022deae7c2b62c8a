package auth

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/service"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.ProvideSession),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
