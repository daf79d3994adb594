package util

import (
	"strings"
	"time"
)

var dateTokens = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"hh", "15",
	"mm", "04",
	"ss", "05",
)

// FormatDate formats t with a template using YYYY, YY, MM, DD, hh, mm and ss
// placeholders. The zero time formats as an empty string.
//
//	FormatDate(t, "DD/MM/YYYY à hh:mm") // "10/11/2023 à 00:00"
func FormatDate(t time.Time, tpl string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTokens.Replace(tpl))
}
