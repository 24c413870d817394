package pdf

import (
	"github.com/smallbiznis/clientdesk/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
	fx.Provide(NewStoreFromConfig),
)

func NewStoreFromConfig(cfg config.Config) (ObjectStore, error) {
	return NewFileStore(cfg.Storage.Dir)
}
