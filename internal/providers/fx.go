package providers

import (
	"github.com/smallbiznis/clientdesk/internal/providers/email"
	"github.com/smallbiznis/clientdesk/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
