package reminderlog

import (
	"github.com/smallbiznis/clientdesk/internal/reminderlog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("reminderlog",
	fx.Provide(repository.Provide),
)
