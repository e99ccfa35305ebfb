package contact

import (
	"bytes"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// excerptLength is how much of the message the confirmation email quotes
const excerptLength = 100

var ownerHTMLTmpl = template.Must(template.New("ownerHTML").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #6366f1; padding-bottom: 10px;">New Contact Message</h2>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #6366f1; margin-top: 0;">Sender Information:</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
  </div>
  <div style="background-color: #ffffff; padding: 20px; border: 1px solid #e5e7eb; border-radius: 8px;">
    <h3 style="color: #333; margin-top: 0;">Message:</h3>
    <p style="line-height: 1.6; color: #374151;">{{.MessageHTML}}</p>
  </div>
  <div style="margin-top: 30px; padding: 15px; background-color: #f3f4f6; border-radius: 8px; font-size: 14px; color: #6b7280;">
    <p><strong>Sender IP:</strong> {{.IP}}</p>
    <p><strong>User Agent:</strong> {{.UserAgent}}</p>
  </div>
</div>`))

var ownerTextTmpl = texttemplate.Must(texttemplate.New("ownerText").Parse(`New Contact Message

Sender Information:
- Name: {{.Name}}
- Email: {{.Email}}
- Date: {{.Date}}

Message:
{{.Message}}

---
IP: {{.IP}}
User Agent: {{.UserAgent}}
`))

var confirmationHTMLTmpl = template.Must(template.New("confirmationHTML").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #6366f1; padding-bottom: 10px;">Message Received</h2>
  <p>Hi <strong>{{.Name}}</strong>,</p>
  <p>Thanks for reaching out through my portfolio. I received your message and will reply as soon as possible.</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Summary of your message:</strong></p>
    <p style="font-style: italic; color: #6b7280;">&quot;{{.Excerpt}}&quot;</p>
  </div>
  <p>In the meantime, you can check out my work on:</p>
  <ul>
    <li><a href="https://github.com/dantemoss" style="color: #6366f1;">GitHub</a></li>
    <li><a href="https://linkedin.com/in/dante-moscoso-aa146825a/" style="color: #6366f1;">LinkedIn</a></li>
  </ul>
  <p style="margin-top: 30px; font-size: 14px; color: #6b7280;">
    Best,<br>
    <strong>Dante Moscoso</strong><br>
    Full Stack Developer
  </p>
</div>`))

var confirmationTextTmpl = texttemplate.Must(texttemplate.New("confirmationText").Parse(`Message Received

Hi {{.Name}},

Thanks for reaching out through my portfolio. I received your message and will reply as soon as possible.

Summary of your message:
"{{.Excerpt}}"

Best,
Dante Moscoso
Full Stack Developer
`))

// ownerData feeds the owner notification templates
type ownerData struct {
	Name        string
	Email       string
	Date        string
	Message     string
	MessageHTML template.HTML
	IP          string
	UserAgent   string
}

// confirmationData feeds the sender acknowledgement templates
type confirmationData struct {
	Name    string
	Excerpt string
}

// Renderer renders the two email documents for a submission, localizing
// timestamps to a fixed timezone.
type Renderer struct {
	loc *time.Location
}

// NewRenderer creates a Renderer for the given IANA timezone, falling
// back to UTC when the zone is unknown.
func NewRenderer(timezone string) *Renderer {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// OwnerNotification renders the notification sent to the site owner,
// including request metadata for abuse triage.
func (r *Renderer) OwnerNotification(req ContactRequest, meta RequestMeta, now time.Time) (string, string, error) {
	data := ownerData{
		Name:        req.Name,
		Email:       req.Email,
		Date:        now.In(r.loc).Format("2 January 2006, 15:04"),
		Message:     req.Message,
		MessageHTML: messageHTML(req.Message),
		IP:          orUnavailable(meta.IP),
		UserAgent:   orUnavailable(meta.UserAgent),
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := ownerHTMLTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	if err := ownerTextTmpl.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// SenderConfirmation renders the acknowledgement sent back to the
// submitter, quoting a truncated excerpt of their message.
func (r *Renderer) SenderConfirmation(req ContactRequest) (string, string, error) {
	data := confirmationData{
		Name:    req.Name,
		Excerpt: excerpt(req.Message),
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := confirmationHTMLTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	if err := confirmationTextTmpl.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// messageHTML escapes the message and preserves line breaks as <br>
func messageHTML(message string) template.HTML {
	escaped := template.HTMLEscapeString(message)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// excerpt truncates the message for the confirmation summary
func excerpt(message string) string {
	runes := []rune(message)
	if len(runes) <= excerptLength {
		return message
	}
	return string(runes[:excerptLength]) + "..."
}

// orUnavailable substitutes a fixed marker for missing metadata
func orUnavailable(s string) string {
	if s == "" {
		return "Not available"
	}
	return s
}
