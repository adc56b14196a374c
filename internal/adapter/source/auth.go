package source

import (
	"log/slog"

	"github.com/mmcdole/hagallery/internal/adapter/source/homeassistant"
)

// NewAuthFlow creates the interactive token flow used by the setup command
func NewAuthFlow(logger *slog.Logger) *homeassistant.AuthFlow {
	return homeassistant.NewAuthFlow(logger)
}
