package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// ErrSendFailed wraps any delivery failure; the message carries the
// backend's human-readable detail when one was returned.
var ErrSendFailed = errors.New("email send failed")

// Report is one lead-report delivery request.
type Report struct {
	Recipient  string
	Subject    string
	Message    string
	Query      string
	CSVContent string // empty means no attachment
	CSVName    string
}

type IEmailService interface {
	SendReport(ctx context.Context, report Report) error
}

// emailService delivers through the external email relay when one is
// configured, and falls back to direct SMTP otherwise. Either way the
// caller only sees success or ErrSendFailed with a detail message.
type emailService struct {
	relayURL    string
	client      *http.Client
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(relayURL, smtpHost string, smtpPort int, smtpEmail, smtpPassword, senderName string) IEmailService {
	var dialer *gomail.Dialer
	if smtpHost != "" {
		dialer = gomail.NewDialer(smtpHost, smtpPort, smtpEmail, smtpPassword)
	}

	return &emailService{
		relayURL:    strings.TrimRight(relayURL, "/"),
		client:      &http.Client{Timeout: 30 * time.Second},
		dialer:      dialer,
		senderEmail: smtpEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendReport(ctx context.Context, report Report) error {
	if s.relayURL != "" {
		return s.sendViaRelay(ctx, report)
	}
	if s.dialer != nil {
		return s.sendViaSMTP(report)
	}
	return fmt.Errorf("%w: no email backend configured", ErrSendFailed)
}

// sendViaRelay posts to the external email service. Non-2xx responses
// carry a detail message in the body which we surface verbatim.
func (s *emailService) sendViaRelay(ctx context.Context, report Report) error {
	body := map[string]interface{}{
		"recipient_email": report.Recipient,
		"subject":         report.Subject,
		"message":         report.Message,
		"query":           report.Query,
	}
	if report.CSVContent != "" {
		body["attachCsv"] = true
		body["csvContent"] = report.CSVContent
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.relayURL+"/send-email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		if len(detail) == 0 {
			return fmt.Errorf("%w: relay returned status %d", ErrSendFailed, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrSendFailed, strings.TrimSpace(string(detail)))
	}

	return nil
}

func (s *emailService) sendViaSMTP(report Report) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", report.Recipient)
	m.SetHeader("Subject", report.Subject)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Lead Generation Report</h2>
			<p>%s</p>
			<p>This report was generated for the search query: <strong>%s</strong></p>
			<p>Best regards,<br>LeadGen Suite</p>
		</div>
	`, strings.ReplaceAll(report.Message, "\n", "<br>"), report.Query)

	m.SetBody("text/html", body)

	if report.CSVContent != "" {
		name := report.CSVName
		if name == "" {
			name = "leads_report.csv"
		}
		m.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write([]byte(report.CSVContent))
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}
