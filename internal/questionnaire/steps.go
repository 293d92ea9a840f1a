package questionnaire

import (
	"strings"

	"github.com/m3rciful/applybot/core/telegram/state"
)

// Steps of the questionnaire. StepStart is transient: a new session leaves it
// immediately. StepEnd and StepCancelled are terminal and never stored.
const (
	StepStart            state.State = "start"
	StepRegion           state.State = "region"
	StepLastName         state.State = "last_name"
	StepFirstName        state.State = "first_name"
	StepCallsign         state.State = "callsign"
	StepTelegramContact  state.State = "telegram_contact"
	StepCommanderContact state.State = "commander_contact"
	StepMedicine         state.State = "medicine"
	StepAid              state.State = "aid"
	StepEquipment        state.State = "equipment"
	StepEnd              state.State = "end"
	StepCancelled        state.State = "cancelled"
)

// Field names of collected answers; they match the applications table columns.
const (
	FieldRegion              = "region"
	FieldLastName            = "last_name"
	FieldFirstName           = "first_name"
	FieldCallsign            = "callsign"
	FieldTelegramContact     = "telegram_contact"
	FieldCommanderContact    = "commander_contact"
	FieldNeedMedicine        = "need_medicine"
	FieldNeedHumanitarianAid = "need_humanitarian_aid"
	FieldNeedEquipment       = "need_equipment"
)

// Kind selects how an answer is validated and stored.
type Kind int

const (
	// KindText stores the raw message verbatim.
	KindText Kind = iota
	// KindRegion is free text gated by AcceptRegion.
	KindRegion
	// KindYesNo stores ParseYesNo of the message.
	KindYesNo
)

// Question is one row of the questionnaire table: the step that asks it, the
// field its answer fills, the prompt sent on entering the step, and its kind.
type Question struct {
	Step   state.State
	Field  string
	Prompt string
	Kind   Kind
}

var questions = []Question{
	{StepRegion, FieldRegion, "Привет! Я помогу вам создать заявку. Для начала, укажите свой регион.", KindRegion},
	{StepLastName, FieldLastName, "Отлично! Теперь укажите вашу фамилию.", KindText},
	{StepFirstName, FieldFirstName, "Укажите ваше имя.", KindText},
	{StepCallsign, FieldCallsign, "Укажите ваш позывной.", KindText},
	{StepTelegramContact, FieldTelegramContact, "Укажите ваши контактные данные в Telegram.", KindText},
	{StepCommanderContact, FieldCommanderContact, "Укажите контактные данные командира.", KindText},
	{StepMedicine, FieldNeedMedicine, "Нужны ли вам медикаменты? (да/нет)", KindYesNo},
	{StepAid, FieldNeedHumanitarianAid, "Нужна ли вам гуманитарная помощь? (да/нет)", KindYesNo},
	{StepEquipment, FieldNeedEquipment, "Нужно ли вам оборудование? (да/нет)", KindYesNo},
}

// Questions returns the ordered questionnaire table.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

var (
	acceptedRegions = map[string]struct{}{"янао": {}, "ян": {}}
	yesAnswers      = map[string]struct{}{"да": {}, "yes": {}}
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AcceptRegion reports whether the region answer passes the gate.
func AcceptRegion(text string) bool {
	_, ok := acceptedRegions[normalize(text)]
	return ok
}

// ParseYesNo coerces an answer to a boolean. Anything but "да"/"yes" is false.
func ParseYesNo(text string) bool {
	_, ok := yesAnswers[normalize(text)]
	return ok
}
