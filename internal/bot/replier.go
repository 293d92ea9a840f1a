package bot

import (
	"context"

	tghelpers "github.com/m3rciful/applybot/core/telegram/helpers"
	"github.com/m3rciful/applybot/core/telegram/keyboard"
	"github.com/m3rciful/applybot/internal/questionnaire"

	tele "gopkg.in/telebot.v4"
)

func replier(c tele.Context) questionnaire.Replier {
	return questionnaire.ReplierFunc(func(_ context.Context, m questionnaire.Message) error {
		rm := markup(m.Keyboard)
		if rm == nil {
			return tghelpers.SendText(c, m.Text)
		}
		return tghelpers.SendText(c, m.Text, &tele.SendOptions{ReplyMarkup: rm})
	})
}

func markup(k questionnaire.Keyboard) *tele.ReplyMarkup {
	switch k {
	case questionnaire.KeyboardCancel:
		return keyboard.SingleCancelMarkup(CancelUnique)
	case questionnaire.KeyboardYesNo:
		return keyboard.ReplyButtons([]string{"да", "нет"})
	case questionnaire.KeyboardRemove:
		return keyboard.RemoveKeyboard()
	}
	return nil
}
