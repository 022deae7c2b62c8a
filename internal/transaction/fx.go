package transaction

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/service"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(webhook.New),
)
