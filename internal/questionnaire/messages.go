package questionnaire

import "context"

// Keyboard hints how a reply should be decorated by the transport.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	// KeyboardCancel attaches an inline cancel button.
	KeyboardCancel
	// KeyboardYesNo shows да/нет reply buttons.
	KeyboardYesNo
	// KeyboardRemove hides any reply keyboard.
	KeyboardRemove
)

// Message is one outbound reply to the user.
type Message struct {
	Text     string
	Keyboard Keyboard
}

// Replier sends messages back to the user driving the session.
type Replier interface {
	Reply(ctx context.Context, msg Message) error
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, msg Message) error

// Reply calls f.
func (f ReplierFunc) Reply(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Fixed user-facing texts.
const (
	TextRejected     = "Пока мы принимаем заявки только от бойцов с ЯНАО. Извините."
	TextCompleted    = "Спасибо! Ваша заявка принята."
	TextCancelled    = "Отмена. Если захотите начать заново, просто наберите /start"
	TextNoSession    = "Чтобы подать заявку, наберите /start"
	TextSubmitFailed = "Не удалось сохранить заявку. Отправьте последний ответ ещё раз или наберите /cancel."
	TextBroken       = "Что-то пошло не так. Наберите /start, чтобы начать заново."
)

func promptFor(q Question) Message {
	kb := KeyboardCancel
	if q.Kind == KindYesNo {
		kb = KeyboardYesNo
	}
	return Message{Text: q.Prompt, Keyboard: kb}
}
