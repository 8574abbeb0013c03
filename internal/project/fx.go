package project

import (
	"github.com/tracera/tracera/internal/project/repository"
	"github.com/tracera/tracera/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
