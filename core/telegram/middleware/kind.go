package middleware

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Update kinds used for rate limit exclusions and metrics labels.
const (
	KindCommand  = "command"
	KindMessage  = "message"
	KindCallback = "callback"
	KindOther    = "other"
)

// UpdateKind classifies an update. Commands are messages starting with "/".
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return KindCallback
	case upd.Message != nil:
		if strings.HasPrefix(upd.Message.Text, "/") {
			return KindCommand
		}
		return KindMessage
	}
	return KindOther
}
