// Package submission turns a completed questionnaire into a stored
// application and a channel announcement.
package submission

import (
	"github.com/m3rciful/applybot/internal/questionnaire"
)

// Record is one row of the applications table.
type Record struct {
	ID                  int64  `db:"id"`
	Region              string `db:"region"`
	LastName            string `db:"last_name"`
	FirstName           string `db:"first_name"`
	Callsign            string `db:"callsign"`
	TelegramContact     string `db:"telegram_contact"`
	CommanderContact    string `db:"commander_contact"`
	NeedMedicine        bool   `db:"need_medicine"`
	NeedHumanitarianAid bool   `db:"need_humanitarian_aid"`
	NeedEquipment       bool   `db:"need_equipment"`
}

// RecordFromAnswers copies the answers into an unsaved record.
func RecordFromAnswers(a questionnaire.Answers) *Record {
	return &Record{
		Region:              a.Region,
		LastName:            a.LastName,
		FirstName:           a.FirstName,
		Callsign:            a.Callsign,
		TelegramContact:     a.TelegramContact,
		CommanderContact:    a.CommanderContact,
		NeedMedicine:        a.NeedMedicine,
		NeedHumanitarianAid: a.NeedHumanitarianAid,
		NeedEquipment:       a.NeedEquipment,
	}
}
