//go:build !ebiten

package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ring-ca/internal/app"
)

func TestViewWithoutGUI(t *testing.T) {
	_, _, err := execute(t, "view", "-w", "8", "-g", "4")
	require.Error(t, err)
	assert.True(t, errors.Is(err, app.ErrNoGUI))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
