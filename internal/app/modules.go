package app

import (
	"github.com/vk/mediaflowgo/internal/registry"
	"github.com/vk/mediaflowgo/modules/openai"
	"github.com/vk/mediaflowgo/modules/passthrough"
	"github.com/vk/mediaflowgo/modules/replicate"
	"github.com/vk/mediaflowgo/modules/script"
)

// coreModules is the definitive list of all generator modules compiled into
// the mediaflowgo binary.
var coreModules = []registry.Module{
	&passthrough.Module{},
	&openai.Module{},
	&replicate.Module{},
	&script.Module{},
}
