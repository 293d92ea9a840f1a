// Package bot binds the questionnaire to telegram updates.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tg "github.com/m3rciful/applybot/core/telegram"
	"github.com/m3rciful/applybot/core/telegram/commands"
	tghelpers "github.com/m3rciful/applybot/core/telegram/helpers"
	"github.com/m3rciful/applybot/core/telegram/router"
	"github.com/m3rciful/applybot/core/telegram/ui"
	"github.com/m3rciful/applybot/internal/questionnaire"

	tele "gopkg.in/telebot.v4"
)

// CancelUnique is the callback key of the inline cancel button.
const CancelUnique = "wizard_cancel"

const (
	textUnknownCommand = "Сейчас идёт заполнение заявки. Ответьте на вопрос или наберите /cancel."
	textTextOnly       = "Пожалуйста, ответьте текстом."
	textUnavailable    = "Действие недоступно"
)

// Wizard is the questionnaire as seen by the transport.
type Wizard interface {
	Start(ctx context.Context, userID int64, r questionnaire.Replier) error
	Answer(ctx context.Context, userID int64, text string, r questionnaire.Replier) error
	Cancel(ctx context.Context, userID int64, r questionnaire.Replier) error
	Active(userID int64) bool
}

// Handlers turns telegram updates into questionnaire calls.
type Handlers struct {
	wizard Wizard
}

var (
	_ router.Conversation = (*Handlers)(nil)
	_ ui.FallbackProvider = (*Handlers)(nil)
)

// New returns handlers driving w.
func New(w Wizard) (*Handlers, error) {
	if w == nil {
		return nil, errors.New("bot: nil wizard")
	}
	return &Handlers{wizard: w}, nil
}

// Register adds /start, /cancel and the cancel button to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.start,
		Description: "Подать заявку",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.cancel,
		Description: "Отменить заполнение",
	})
	if err := reg.RegisterCallback(CancelUnique, h.cancel); err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	reg.SetCallbackNotFound(h.UnknownCallback())
	return nil
}

// Routes returns every route of the bot. Call after Register.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.TextRoutes(h, reg, router.TextOptions{
		UnknownText:     h.UnknownText(),
		UnknownDocument: h.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{NotFound: h.UnknownCallback()}))
	return routes
}

// InProgress reports whether userID is filling the form.
func (h *Handlers) InProgress(userID int64) bool {
	return h.wizard.Active(userID)
}

// Handle feeds a text message to the user's session. Unknown commands do not
// count as answers.
func (h *Handlers) Handle(c tele.Context) error {
	if strings.HasPrefix(c.Text(), "/") {
		return tghelpers.SendText(c, textUnknownCommand)
	}
	return h.answer(c)
}

func (h *Handlers) start(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return h.wizard.Start(tghelpers.BuildContext(c), user.ID, replier(c))
}

func (h *Handlers) cancel(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return ignoreNoSession(h.wizard.Cancel(tghelpers.BuildContext(c), user.ID, replier(c)))
}

func (h *Handlers) answer(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return ignoreNoSession(h.wizard.Answer(tghelpers.BuildContext(c), user.ID, c.Text(), replier(c)))
}

// The user already got /start guidance.
func ignoreNoSession(err error) error {
	if errors.Is(err, questionnaire.ErrSessionNotFound) {
		return nil
	}
	return err
}
