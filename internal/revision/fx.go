package revision

import (
	"github.com/tracera/tracera/internal/revision/repository"
	"github.com/tracera/tracera/internal/revision/service"
	"go.uber.org/fx"
)

var Module = fx.Module("revision.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
