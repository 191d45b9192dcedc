package notifications

import (
	"bytes"
	"html/template"

	"terrapulse/internal/contact"
)

const contactNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New message from the TerraPulse contact form</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Received:</strong> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
</body>
</html>`

const contactAcknowledgementTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.Name}},</p>
  <p>Thank you for reaching out to TerraPulse. We received your message about "{{.Subject}}" and will get back to you soon.</p>
  <p>Reference: {{.ID}}</p>
  <p>For the wild,<br/>The TerraPulse team</p>
</body>
</html>`

var contactNotificationTmpl = template.Must(template.New("contact_notification").Parse(contactNotificationTemplate))
var contactAcknowledgementTmpl = template.Must(template.New("contact_acknowledgement").Parse(contactAcknowledgementTemplate))

func buildContactNotificationHTML(msg contact.Message) (string, error) {
	var buf bytes.Buffer
	if err := contactNotificationTmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildContactAcknowledgementHTML(msg contact.Message) (string, error) {
	if msg.Name == "" {
		msg.Name = msg.Email
	}
	var buf bytes.Buffer
	if err := contactAcknowledgementTmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}
