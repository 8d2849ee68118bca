package settings

import (
	"github.com/estilistapro/estilista/internal/settings/repository"
	"github.com/estilistapro/estilista/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
