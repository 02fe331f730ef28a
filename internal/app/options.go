package app

import "errors"

// ErrNoGUI is returned by Run in builds without the ebiten tag.
var ErrNoGUI = errors.New("the viewer requires building with -tags ebiten")

// Options controls the viewer window.
type Options struct {
	Scale int
	// TPS is the number of generations advanced per second.
	TPS  int
	Seed int64
}
