package providers

import (
	"github.com/smallbiznis/airnex/internal/providers/llm"
	"github.com/smallbiznis/airnex/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	llm.Module,
	pdf.Module,
)
