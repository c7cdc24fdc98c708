package mail_test

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/mail"
)

func TestRawMessage(t *testing.T) {
	raw := string(mail.To("a@x.test", " ", "b@x.test").
		CC("c@x.test").
		Subject("Hello").
		Text("plain body").
		Raw("Shop <shop@x.test>"))

	assert.Contains(t, raw, "From: Shop <shop@x.test>\r\n")
	assert.Contains(t, raw, "To: a@x.test, b@x.test\r\n")
	assert.Contains(t, raw, "Cc: c@x.test\r\n")
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.Contains(t, raw, `Content-Type: text/plain; charset="UTF-8"`)
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nplain body"))
}

func TestTemplate(t *testing.T) {
	tpl := template.Must(template.New("cb").Parse(`<p>{{.Name}} ({{.Phone}})</p>`))
	m := mail.To("a@x.test").Template(tpl, map[string]string{"Name": "<Ann>", "Phone": "123"})
	assert.Equal(t, "<p>&lt;Ann&gt; (123)</p>", m.Content())
}

func TestLogMailer(t *testing.T) {
	require.NoError(t, mail.LogMailer{}.Send(context.Background(), mail.To("a@x.test").Subject("s")))
	assert.ErrorIs(t, mail.LogMailer{}.Send(context.Background(), mail.To("")), mail.ErrNoRecipients)
}

func TestSMTPRequiresHost(t *testing.T) {
	err := mail.NewSMTP(mail.SMTP{}).Send(context.Background(), mail.To("a@x.test"))
	assert.Error(t, err)
}
