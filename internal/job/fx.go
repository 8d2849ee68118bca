package job

import (
	"github.com/estilistapro/estilista/internal/job/repository"
	"github.com/estilistapro/estilista/internal/job/service"
	"go.uber.org/fx"
)

var Module = fx.Module("job.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
