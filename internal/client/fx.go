package client

import (
	"github.com/estilistapro/estilista/internal/client/domain"
	"github.com/estilistapro/estilista/internal/client/service"
	"github.com/estilistapro/estilista/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.ProvideStore[domain.Client]),
	fx.Provide(service.New),
)
