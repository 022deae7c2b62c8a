package conversation

import (
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/repository"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("conversation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
