package trackerfield

import (
	"github.com/tracera/tracera/internal/trackerfield/repository"
	"github.com/tracera/tracera/internal/trackerfield/service"
	"go.uber.org/fx"
)

var Module = fx.Module("trackerfield.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
