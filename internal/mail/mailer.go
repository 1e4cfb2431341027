package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var _ Notifier = (*MailService)(nil)

type MailService struct {
	DomainSender string
	MailtrapUrl  string
	MailAPI      string
	client       *http.Client
}

func NewMailer(cfg *config.AppConfig) *MailService {
	if cfg.APP.State == "prod" {
		return &MailService{
			DomainSender: cfg.MAILTRAP.API.MailtrapDomain,
			MailtrapUrl:  cfg.MAILTRAP.API.MailtrapURL,
			MailAPI:      cfg.MAILTRAP.API.MailtrapTokenAPI,
			client:       &http.Client{Timeout: 10 * time.Second},
		}
	}
	return &MailService{
		DomainSender: cfg.MAILTRAP.Sandbox.SandboxDomain,
		MailtrapUrl:  cfg.MAILTRAP.Sandbox.SandboxURL,
		MailAPI:      cfg.MAILTRAP.Sandbox.SandboxAPI,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *MailService) Name() string { return "mailtrap" }

func (m *MailService) NotifyLifecycleEvent(ctx context.Context, msg *LifecycleMessage) error {
	if msg.SubjectEmail == "" {
		log.Warn().Str("case_id", msg.CaseID).Msg("Mailer: Subjekt ohne E-Mail, übersprungen.")
		return nil
	}
	return m.send(ctx, msg.SubjectEmail, "aeos365 HRM - "+kindTitle(msg.Kind), msg.Subject(), msg.Text(), "Lifecycle")
}

func (m *MailService) NotifyOverdueTask(ctx context.Context, task *entity.OverdueTask) error {
	subject := fmt.Sprintf("⚠️ Task overdue: %s", task.Label)
	return m.send(ctx, task.AssigneeEmail, "aeos365 HRM - Überfälligkeitsbenachrichtigung", subject, overdueText(task), "Lifecycle Reminder")
}

func (m *MailService) send(ctx context.Context, to, senderName, subject, text, category string) error {
	payload := map[string]any{
		"from": map[string]string{
			"email": m.DomainSender,
			"name":  senderName,
		},
		"to": []map[string]string{
			{
				"email": to,
			},
		},
		"subject":  subject,
		"text":     text,
		"category": category,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error when marshalling payload body.")
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.MailtrapUrl, bytes.NewBuffer(body))
	if err != nil {
		log.Error().Err(err).Msg("Error when building the request.")
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.MailAPI)
	req.Header.Set("Content-Type", "application/json")

	client := m.client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Error when get response from server.")
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailtrap send failed: status=%d body=%s",
			resp.StatusCode,
			string(respBody))
	}

	return nil
}
