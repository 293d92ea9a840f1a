package questionnaire

import (
	"errors"
	"fmt"

	"github.com/m3rciful/applybot/core/telegram/state"
)

var (
	// ErrSessionNotFound is returned when a user answers or cancels without an active session.
	ErrSessionNotFound = errors.New("questionnaire: session not found")
	// ErrIncompleteSession means a session reached the end without every answer.
	// It indicates a broken transition table, never bad user input.
	ErrIncompleteSession = errors.New("questionnaire: incomplete session")
)

// Answers is a completed questionnaire.
type Answers struct {
	Region           string
	LastName         string
	FirstName        string
	Callsign         string
	TelegramContact  string
	CommanderContact string

	NeedMedicine        bool
	NeedHumanitarianAid bool
	NeedEquipment       bool
}

// AnswersFrom extracts all nine answers from a session.
func AnswersFrom(sess *state.Session) (Answers, error) {
	var (
		a       Answers
		missing []string
	)
	str := func(field string, dst *string) {
		v, ok := sess.String(field)
		if !ok {
			missing = append(missing, field)
		}
		*dst = v
	}
	flag := func(field string, dst *bool) {
		v, ok := sess.Bool(field)
		if !ok {
			missing = append(missing, field)
		}
		*dst = v
	}

	str(FieldRegion, &a.Region)
	str(FieldLastName, &a.LastName)
	str(FieldFirstName, &a.FirstName)
	str(FieldCallsign, &a.Callsign)
	str(FieldTelegramContact, &a.TelegramContact)
	str(FieldCommanderContact, &a.CommanderContact)
	flag(FieldNeedMedicine, &a.NeedMedicine)
	flag(FieldNeedHumanitarianAid, &a.NeedHumanitarianAid)
	flag(FieldNeedEquipment, &a.NeedEquipment)

	if len(missing) > 0 {
		return Answers{}, fmt.Errorf("%w: missing %v", ErrIncompleteSession, missing)
	}
	return a, nil
}
