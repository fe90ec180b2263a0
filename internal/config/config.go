// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// Quirk profile names.
const (
	ModernProfile = "modern"
	CosmacProfile = "cosmac"
)

// ErrUnknownProfile is returned for an unsupported quirk profile name.
var ErrUnknownProfile = errors.New("unknown quirks profile")

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// QuirksProfile returns the instruction quirks for the profile name. An empty
// name selects the modern profile.
func QuirksProfile(name string) (machine.Quirks, error) {
	switch strings.ToLower(name) {
	case "", ModernProfile:
		return machine.ModernQuirks(), nil
	case CosmacProfile:
		return machine.CosmacQuirks(), nil
	default:
		return machine.Quirks{}, fmt.Errorf("%w '%s', valid options: %s, %s",
			ErrUnknownProfile, name, ModernProfile, CosmacProfile)
	}
}
