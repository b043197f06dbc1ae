package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hidromont/site-backend/config"
	"github.com/hidromont/site-backend/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// Notifier tells staff about a new order.
type Notifier interface {
	NotifyOrder(ctx context.Context, order models.Order) error
}

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// MailSettings are the addresses used for order notifications.
type MailSettings struct {
	To            string
	From          string
	FromName      string
	SubjectPrefix string
}

func MailSettingsFromConfig(c map[string]string) MailSettings {
	return MailSettings{
		To:            config.GetString(c, "ORDER_NOTIFY_EMAIL", "hidromontjovancic@gmail.com"),
		From:          config.GetString(c, "MAIL_FROM", "noreply@hidromontjovancic.rs"),
		FromName:      config.GetString(c, "MAIL_FROM_NAME", "Hidromont Jovancic"),
		SubjectPrefix: config.GetString(c, "MAIL_SUBJECT_PREFIX", "[Hidromont] "),
	}
}

func (m MailSettings) sender() string {
	if m.FromName == "" {
		return m.From
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.From)
}

// ResendNotifier sends order e-mails through the Resend API.
type ResendNotifier struct {
	APIKey   string
	Endpoint string
	Mail     MailSettings
	Client   *http.Client
}

func NewResendNotifier(apiKey string, mail MailSettings) *ResendNotifier {
	return &ResendNotifier{
		APIKey:   apiKey,
		Endpoint: resendEndpoint,
		Mail:     mail,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifierFromConfig returns a ResendNotifier when RESEND_API_KEY is set and
// a LogNotifier otherwise.
func NotifierFromConfig(c map[string]string) Notifier {
	mail := MailSettingsFromConfig(c)
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	if apiKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set, order notifications will only be logged")
		return LogNotifier{Mail: mail}
	}
	return NewResendNotifier(apiKey, mail)
}

func (n *ResendNotifier) NotifyOrder(ctx context.Context, order models.Order) error {
	subject, text, htmlBody := orderEmail(n.Mail.SubjectPrefix, order)
	return n.send(ctx, ResendEmailRequest{
		From:    n.Mail.sender(),
		To:      []string{n.Mail.To},
		Subject: subject,
		Html:    htmlBody,
		Text:    text,
		ReplyTo: order.Email,
	})
}

func (n *ResendNotifier) send(ctx context.Context, payload ResendEmailRequest) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

// LogNotifier only logs the order. Used when no mail provider is configured.
type LogNotifier struct {
	Mail MailSettings
}

func (n LogNotifier) NotifyOrder(_ context.Context, order models.Order) error {
	subject, _, _ := orderEmail(n.Mail.SubjectPrefix, order)
	log.Info().
		Uint("orderID", order.ID).
		Str("to", n.Mail.To).
		Str("subject", subject).
		Msg("order notification (not sent, no mail provider)")
	return nil
}

// orderEmail renders the subject with plain-text and HTML bodies.
func orderEmail(prefix string, order models.Order) (subject, text, htmlBody string) {
	subject = prefix + "Nova porudzbina #" + fmt.Sprint(order.ID)
	if order.Subject != "" {
		subject += " - " + order.Subject
	}

	rows := [][2]string{
		{"Ime", order.Name},
		{"Email", order.Email},
		{"Telefon", order.Phone},
		{"Tema", order.Subject},
		{"Vrsta betona", order.ConcreteType},
	}

	var t, h strings.Builder
	h.WriteString("<table>")
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(&t, "%s: %s\n", row[0], row[1])
		fmt.Fprintf(&h, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", row[0], html.EscapeString(row[1]))
	}
	h.WriteString("</table>")

	fmt.Fprintf(&t, "\n%s\n", order.Message)
	fmt.Fprintf(&h, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(order.Message), "\n", "<br>"))
	return subject, t.String(), h.String()
}
