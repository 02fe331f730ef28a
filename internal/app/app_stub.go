//go:build !ebiten

package app

import "ring-ca/internal/core"

// Run always fails in headless builds.
func Run(core.Sim, Options) error { return ErrNoGUI }
