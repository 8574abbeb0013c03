package artifact

import (
	"github.com/tracera/tracera/internal/artifact/repository"
	"github.com/tracera/tracera/internal/artifact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("artifact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
