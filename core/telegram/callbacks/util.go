// Package callbacks decodes telebot callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits callback data into unique key and payload.
// Telebot encodes inline button data as "\f<unique>|<payload>"; Unique wins when
// telebot already decoded it.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	key, payload, _ := strings.Cut(raw, "|")
	key = strings.TrimSpace(key)
	if cb.Unique != "" {
		if key != cb.Unique {
			// Data already stripped of the unique part.
			return cb.Unique, cb.Data
		}
		return cb.Unique, payload
	}
	return key, payload
}

// CallbackKey returns the unique key of the current callback.
func CallbackKey(c tele.Context) string {
	k, _ := ParseCallbackData(c.Callback())
	return k
}

// CallbackPayload returns the payload of the current callback.
func CallbackPayload(c tele.Context) string {
	_, p := ParseCallbackData(c.Callback())
	return p
}
