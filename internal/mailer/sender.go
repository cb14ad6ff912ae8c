// Package mailer renders application emails and delivers them over SMTP
// using the applicant's own relay credentials.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/hireflow/internal/config"
	"github.com/jonathan/hireflow/internal/logger"
	"github.com/jonathan/hireflow/internal/types"
	"github.com/wneessen/go-mail"
)

const defaultContentType = "application/pdf"

// Message is one outgoing application email.
// Username and Password authenticate against the relay and are never logged.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	Subject     string
	HTML        string
	Attachments []types.Attachment
	Username    string
	Password    string
}

// Sender delivers a Message and returns its Message-ID.
type Sender interface {
	Send(ctx context.Context, m Message) (string, error)
}

// Delivery stages reported by DeliveryError.
const (
	StageCompose = "compose"
	StageConnect = "connect"
	StageSend    = "send"
)

// DeliveryError reports a failed delivery and the stage it failed at.
// Authentication failures surface at StageConnect.
type DeliveryError struct {
	Stage string
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("smtp %s failed: %v", e.Stage, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// SMTPSender sends mail through the configured relay.
type SMTPSender struct {
	host      string
	port      int
	tlsPolicy mail.TLSPolicy
	timeout   time.Duration
	log       logger.Logger
}

// NewSMTPSender creates an SMTPSender from relay settings.
func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	policy, err := tlsPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &SMTPSender{
		host:      cfg.Host,
		port:      cfg.Port,
		tlsPolicy: policy,
		timeout:   cfg.Timeout,
		log:       log,
	}, nil
}

func tlsPolicy(s string) (mail.TLSPolicy, error) {
	switch strings.ToLower(s) {
	case "", "opportunistic":
		return mail.TLSOpportunistic, nil
	case "mandatory":
		return mail.TLSMandatory, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, fmt.Errorf("unknown smtp tls policy %q", s)
	}
}

// Send dials the relay, authenticates with the message credentials and delivers m.
// No retry is attempted.
func (s *SMTPSender) Send(ctx context.Context, m Message) (string, error) {
	msg, id, err := buildMsg(m)
	if err != nil {
		return "", &DeliveryError{Stage: StageCompose, Cause: err}
	}

	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(s.tlsPolicy),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.Username),
		mail.WithPassword(m.Password),
	}
	if s.timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.timeout))
	}

	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return "", &DeliveryError{Stage: StageConnect, Cause: err}
	}

	if err := client.DialWithContext(ctx); err != nil {
		return "", &DeliveryError{Stage: StageConnect, Cause: err}
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("closing smtp connection", map[string]interface{}{"host": s.host})
		}
	}()

	if err := client.Send(msg); err != nil {
		return "", &DeliveryError{Stage: StageSend, Cause: err}
	}

	s.log.Info("application email sent", map[string]interface{}{
		"host":       s.host,
		"message_id": id,
	})
	return id, nil
}

// buildMsg assembles the MIME message and assigns it a fresh Message-ID.
func buildMsg(m Message) (*mail.Msg, string, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.FromName, m.FromAddress); err != nil {
		return nil, "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, "", fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	for _, a := range m.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = defaultContentType
		}
		if err := msg.AttachReader(a.Filename, bytesReader(a.Content), mail.WithFileContentType(mail.ContentType(ct))); err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}

	id := fmt.Sprintf("%s@%s", uuid.NewString(), messageIDDomain(m.FromAddress))
	msg.SetMessageIDWithValue(id)
	return msg, "<" + id + ">", nil
}

func messageIDDomain(addr string) string {
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		return strings.Trim(addr[at+1:], "> ")
	}
	return "hireflow.local"
}
