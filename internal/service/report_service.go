package service

import (
	"strings"
	"time"

	"validade-backend/internal/expiry"
	"validade-backend/internal/i18n"
	"validade-backend/internal/mailer"
	"validade-backend/internal/repository"
)

// ReportService renders the expired-items list as shareable plain text
// and mails it on request.
type ReportService interface {
	ExpiredReport() (string, error)
	ShareExpired(to string) error
}

type reportService struct {
	products repository.ProductRepository
	settings repository.SettingsRepository
	mail     mailer.Mailer
	msgs     *i18n.Catalog
}

func NewReportService(
	products repository.ProductRepository,
	settings repository.SettingsRepository,
	mail mailer.Mailer,
	msgs *i18n.Catalog,
) ReportService {
	return &reportService{products: products, settings: settings, mail: mail, msgs: msgs}
}

func (s *reportService) ExpiredReport() (string, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return "", err
	}

	products, err := s.products.ListActive(repository.SortByExpiry)
	if err != nil {
		return "", err
	}

	var lines []string
	for i := range products {
		p := &products[i]
		if expiry.Classify(p.ExpiryDate, cfg.LeadDays, time.Now()) != expiry.StatusExpired {
			continue
		}
		lines = append(lines, s.msgs.ExpiredReportLine(p.Name, p.ExpiryDate, p.Quantity))
	}

	var b strings.Builder
	b.WriteString(s.msgs.ExpiredReportHeader())
	b.WriteString("\n\n")
	if len(lines) == 0 {
		b.WriteString(s.msgs.ExpiredReportEmpty())
		b.WriteString("\n")
	} else {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (s *reportService) ShareExpired(to string) error {
	report, err := s.ExpiredReport()
	if err != nil {
		return err
	}
	return s.mail.Send(to, s.msgs.ExpiredReportHeader(), report)
}
