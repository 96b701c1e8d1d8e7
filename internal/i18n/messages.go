package i18n

import "fmt"

// Catalog resolves user-facing strings by message identifier for one
// locale, loaded once at startup. Handlers and the reminder pipeline go
// through the typed accessors instead of looking keys up ad hoc.
type Catalog struct {
	locale   string
	messages map[string]string
}

var locales = map[string]map[string]string{
	"pt-BR": {
		"reminder.title":        "Atenção à Validade!",
		"reminder.body":         "O produto '%s' vence em %d dias (%s).",
		"report.expired.header": "Produtos vencidos — De Olho na Validade",
		"report.expired.line":   "- %s (venceu em %s, qtd %d)",
		"report.expired.empty":  "Nenhum produto vencido.",
		"error.validation":      "Preencha Nome e Validade corretamente",
		"error.invalid_backup":  "Arquivo de backup inválido",
		"error.not_found":       "Produto não encontrado",
		"error.save_failed":     "Falha ao salvar",
	},
	"en": {
		"reminder.title":        "Expiry warning!",
		"reminder.body":         "Product '%s' expires in %d days (%s).",
		"report.expired.header": "Expired products — De Olho na Validade",
		"report.expired.line":   "- %s (expired on %s, qty %d)",
		"report.expired.empty":  "No expired products.",
		"error.validation":      "Name and expiry date are required",
		"error.invalid_backup":  "Invalid backup file",
		"error.not_found":       "Product not found",
		"error.save_failed":     "Failed to save",
	},
}

// Load returns the catalog for the locale, falling back to pt-BR, the
// app's home locale.
func Load(locale string) *Catalog {
	messages, ok := locales[locale]
	if !ok {
		locale = "pt-BR"
		messages = locales[locale]
	}
	return &Catalog{locale: locale, messages: messages}
}

func (c *Catalog) Locale() string { return c.locale }

func (c *Catalog) get(id string) string {
	if msg, ok := c.messages[id]; ok {
		return msg
	}
	// A missing id is a programming error; make it visible, not fatal.
	return id
}

func (c *Catalog) ReminderTitle() string { return c.get("reminder.title") }

func (c *Catalog) ReminderBody(name string, leadDays int, expiry string) string {
	return fmt.Sprintf(c.get("reminder.body"), name, leadDays, expiry)
}

func (c *Catalog) ExpiredReportHeader() string { return c.get("report.expired.header") }

func (c *Catalog) ExpiredReportLine(name, expiry string, quantity int) string {
	return fmt.Sprintf(c.get("report.expired.line"), name, expiry, quantity)
}

func (c *Catalog) ExpiredReportEmpty() string { return c.get("report.expired.empty") }

func (c *Catalog) ErrValidation() string    { return c.get("error.validation") }
func (c *Catalog) ErrInvalidBackup() string { return c.get("error.invalid_backup") }
func (c *Catalog) ErrNotFound() string      { return c.get("error.not_found") }
func (c *Catalog) ErrSaveFailed() string    { return c.get("error.save_failed") }
