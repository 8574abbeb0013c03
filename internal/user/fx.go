package user

import (
	"github.com/tracera/tracera/internal/user/repository"
	"github.com/tracera/tracera/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
