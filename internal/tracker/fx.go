package tracker

import (
	"github.com/tracera/tracera/internal/tracker/repository"
	"github.com/tracera/tracera/internal/tracker/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tracker.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
