package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/applybot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Начать", Aliases: []string{"go"}})
	reg.RegisterCommand("/cancel", commands.Command{Handler: noop, Description: "Отменить"})
	reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "debug", Hidden: true})
	reg.RegisterCommand("noslash", commands.Command{Handler: noop, Description: "x"})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "dup"})
	reg.RegisterCommand("/empty", commands.Command{Handler: noop})

	visible := reg.ListCommands(true)
	require.Len(t, visible, 2)
	assert.Equal(t, "/cancel", visible[0].Text)
	assert.Equal(t, "/start", visible[1].Text)
	assert.Len(t, reg.ListCommands(false), 3)

	key, cmd, ok := reg.LookupCommand("go")
	require.True(t, ok)
	assert.Equal(t, "/start", key)
	assert.Equal(t, "Начать", cmd.Description)

	_, _, ok = reg.LookupCommand("ЯНАО")
	assert.False(t, ok)
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("wizard_cancel", noop))
	require.Error(t, reg.RegisterCallback("wizard_cancel", noop))
	require.Error(t, reg.RegisterCallback("", noop))

	_, ok := reg.GetCallback("wizard_cancel")
	assert.True(t, ok)
	assert.Equal(t, []string{"wizard_cancel"}, reg.ListCallbacks())
	assert.NotNil(t, reg.CallbackNotFound())
}
