package notification

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewEmailSenderDefaultsToLogProvider(t *testing.T) {
	sender, err := NewEmailSender(EmailConfig{}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &LogEmail{}, sender)
	assert.NoError(t, sender.Send("a@example.com", "subject", "body"))
}

func TestNewEmailSenderRejectsUnknownProvider(t *testing.T) {
	_, err := NewEmailSender(EmailConfig{Provider: "pigeon"}, testLogger())
	assert.Error(t, err)
}

func TestNewEmailSenderValidatesProviderConfig(t *testing.T) {
	_, err := NewEmailSender(EmailConfig{Provider: "smtp"}, testLogger())
	assert.Error(t, err)

	_, err = NewEmailSender(EmailConfig{Provider: "sendgrid"}, testLogger())
	assert.Error(t, err)

	_, err = NewEmailSender(EmailConfig{Provider: "mailgun"}, testLogger())
	assert.Error(t, err)

	sender, err := NewEmailSender(EmailConfig{
		Provider:     "smtp",
		SMTPHost:     "localhost",
		SMTPPort:     "2525",
		SMTPUsername: "user",
		SMTPPassword: "pass",
	}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &SMTPEmail{}, sender)
}
