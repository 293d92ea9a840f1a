package bot

import (
	tghelpers "github.com/m3rciful/applybot/core/telegram/helpers"
	"github.com/m3rciful/applybot/internal/questionnaire"

	tele "gopkg.in/telebot.v4"
)

// UnknownText handles text outside a session; the questionnaire answers
// with /start guidance.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return h.answer
}

// UnknownDocument handles media, which never advances a session.
func (h *Handlers) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		if user := c.Sender(); user != nil && h.wizard.Active(user.ID) {
			return tghelpers.SendText(c, textTextOnly)
		}
		return tghelpers.SendText(c, questionnaire.TextNoSession)
	}
}

// UnknownCallback answers stale or foreign buttons.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: textUnavailable})
	}
}
