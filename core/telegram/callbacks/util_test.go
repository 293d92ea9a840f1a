package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"encoded", &tele.Callback{Data: "\fwizard_cancel|cancel"}, "wizard_cancel", "cancel"},
		{"decoded by telebot", &tele.Callback{Unique: "wizard_cancel", Data: "cancel"}, "wizard_cancel", "cancel"},
		{"unique and raw", &tele.Callback{Unique: "k", Data: "\fk|p"}, "k", "p"},
		{"no payload", &tele.Callback{Data: "plain"}, "plain", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}
