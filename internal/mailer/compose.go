package mailer

import (
	"bytes"
	"io"

	"github.com/jonathan/hireflow/internal/types"
)

// Compose builds the outgoing message for a validated send-email request.
// fromAddress overrides the envelope sender when the relay requires a fixed mailbox.
func Compose(req *types.SendEmailRequest, html, fromAddress string) Message {
	from := fromAddress
	if from == "" {
		from = req.Profile.SenderEmail
	}

	m := Message{
		FromName:    req.Profile.FullName,
		FromAddress: from,
		To:          req.Target.RecipientEmail,
		Subject:     Subject(req.Profile.Workstation, req.Profile.ExperienceLevel, req.Target.CompanyName),
		HTML:        html,
		Username:    req.Profile.SenderEmail,
		Password:    req.Profile.Credential,
	}
	if req.Resume != nil {
		m.Attachments = []types.Attachment{*req.Resume}
	}
	return m
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
