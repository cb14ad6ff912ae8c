package mailer

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/hireflow/internal/config"
	"github.com/jonathan/hireflow/internal/logger"
	"github.com/jonathan/hireflow/internal/logger/logtest"
	"github.com/jonathan/hireflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *types.SendEmailRequest {
	return &types.SendEmailRequest{
		Profile: types.ApplicantProfile{
			SenderEmail:     "ana@example.com",
			Credential:      "app-password",
			FullName:        "Ana Pérez",
			Workstation:     "desarrollo web",
			ExperienceLevel: "junior",
		},
		Target: types.ApplicationTarget{
			RecipientEmail: "rrhh@acme.com",
			CompanyName:    "Acme",
		},
		Resume: &types.Attachment{Filename: "cv.pdf", Content: []byte("%PDF-1.4")},
	}
}

func TestCompose(t *testing.T) {
	req := sampleRequest()

	m := Compose(req, "<p>hola</p>", "")
	assert.Equal(t, "Ana Pérez", m.FromName)
	assert.Equal(t, "ana@example.com", m.FromAddress)
	assert.Equal(t, "rrhh@acme.com", m.To)
	assert.Equal(t, "Candidatura desarrollo web junior – Acme", m.Subject)
	assert.Equal(t, "ana@example.com", m.Username)
	assert.Equal(t, "app-password", m.Password)
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "cv.pdf", m.Attachments[0].Filename)

	m = Compose(req, "<p>hola</p>", "relay@hireflow.dev")
	assert.Equal(t, "relay@hireflow.dev", m.FromAddress)
	assert.Equal(t, "ana@example.com", m.Username)

	req.Resume = nil
	assert.Empty(t, Compose(req, "", "").Attachments)
}

func TestBuildMsg(t *testing.T) {
	m := Compose(sampleRequest(), "<p>hola</p>", "")

	msg, id, err := buildMsg(m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "<"))
	assert.True(t, strings.HasSuffix(id, "@example.com>"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Message-ID: "+id)
	assert.Contains(t, raw, "rrhh@acme.com")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, `cv.pdf`)
	assert.Contains(t, raw, "application/pdf")
}

func TestBuildMsg_InvalidAddresses(t *testing.T) {
	m := Compose(sampleRequest(), "", "")
	m.To = "not an address"
	_, _, err := buildMsg(m)
	assert.Error(t, err)
}

func TestNewSMTPSender(t *testing.T) {
	_, err := NewSMTPSender(config.SMTPConfig{}, nil)
	assert.Error(t, err)

	_, err = NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", TLSPolicy: "sometimes"}, nil)
	assert.Error(t, err)

	s, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587, TLSPolicy: "mandatory"}, logger.NewNoOp())
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", s.host)
}

func TestSMTPSender_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s, err := NewSMTPSender(config.SMTPConfig{
		Host:      "127.0.0.1",
		Port:      port,
		TLSPolicy: "none",
		Timeout:   time.Second,
	}, logtest.New(t))
	require.NoError(t, err)

	_, err = s.Send(context.Background(), Compose(sampleRequest(), "<p>hola</p>", ""))
	require.Error(t, err)

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, StageConnect, derr.Stage)
	assert.NotContains(t, err.Error(), "app-password")
}
