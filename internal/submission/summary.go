package submission

import (
	"strings"

	"github.com/m3rciful/applybot/core/telegram/format"
)

// Summary renders the channel announcement for r in MarkdownV2.
// User values are escaped; labels are fixed.
func Summary(r *Record) string {
	var b strings.Builder
	b.WriteString("*")
	b.WriteString(format.EscapeV2("Новая заявка:"))
	b.WriteString("*")
	line(&b, "Регион:", r.Region)
	line(&b, "Фамилия:", r.LastName)
	line(&b, "Имя:", r.FirstName)
	line(&b, "Позывной:", r.Callsign)
	line(&b, "Контакты:", r.TelegramContact)
	line(&b, "Контакты командира:", r.CommanderContact)
	line(&b, "Нужны медикаменты:", yesNo(r.NeedMedicine))
	line(&b, "Гуманитарная помощь:", yesNo(r.NeedHumanitarianAid))
	line(&b, "Оборудование:", yesNo(r.NeedEquipment))
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	b.WriteString("\n")
	b.WriteString(format.EscapeV2(label))
	b.WriteString(" ")
	b.WriteString(format.EscapeV2(value))
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}
