package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"да", "нет"})
	require.Len(t, m.ReplyKeyboard, 1)
	require.Len(t, m.ReplyKeyboard[0], 2)
	assert.Equal(t, "да", m.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "нет", m.ReplyKeyboard[0][1].Text)
	assert.True(t, m.ResizeKeyboard)
	assert.True(t, m.OneTimeKeyboard)
}

func TestSingleCancelMarkup(t *testing.T) {
	m := SingleCancelMarkup("wizard_cancel")
	require.Len(t, m.InlineKeyboard, 1)
	require.Len(t, m.InlineKeyboard[0], 1)
	btn := m.InlineKeyboard[0][0]
	assert.Equal(t, DefaultCancelText, btn.Text)
	assert.Equal(t, "wizard_cancel", btn.Unique)
	assert.Equal(t, "cancel", btn.Data)

	m = SingleCancelMarkup("x", "stop", "Стоп")
	assert.Equal(t, "Стоп", m.InlineKeyboard[0][0].Text)
	assert.Equal(t, "stop", m.InlineKeyboard[0][0].Data)
}

func TestRemoveKeyboard(t *testing.T) {
	assert.True(t, RemoveKeyboard().RemoveKeyboard)
}
