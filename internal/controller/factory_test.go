package controller

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestNewUI_SelectsImplementation(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	ui := NewUI(cmd, false)
	_, ok := ui.(*SimpleUI)
	assert.True(t, ok, "non-TTY must get the SimpleUI")

	ui = NewUI(cmd, true)
	_, ok = ui.(*TUI)
	assert.True(t, ok, "TTY must get the TUI")
}

func TestIsTTY_NonFileWriter(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
