package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFallsBackToPTBR(t *testing.T) {
	assert.Equal(t, "pt-BR", Load("").Locale())
	assert.Equal(t, "pt-BR", Load("fr").Locale())
	assert.Equal(t, "en", Load("en").Locale())
}

func TestReminderBodyInterpolation(t *testing.T) {
	c := Load("pt-BR")
	got := c.ReminderBody("Leite", 3, "10/03/2026")
	assert.Equal(t, "O produto 'Leite' vence em 3 dias (10/03/2026).", got)
}

func TestExpiredReportLine(t *testing.T) {
	c := Load("en")
	got := c.ExpiredReportLine("Milk", "01/03/2026", 2)
	assert.Equal(t, "- Milk (expired on 01/03/2026, qty 2)", got)
}

func TestMissingIDReturnsID(t *testing.T) {
	c := Load("pt-BR")
	assert.Equal(t, "no.such.id", c.get("no.such.id"))
}
