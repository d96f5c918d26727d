package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

var subjects = map[Kind]string{
	KindWelcome:   "Welcome to Our Platform",
	KindVerifyOTP: "Your Verification OTP",
	KindResetOTP:  "Your Password Reset OTP",
}

// Rendered is a message ready to hand to a transport.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
)

// Render fills the templates for msg.Kind with msg.Data.
func Render(msg Message) (Rendered, error) {
	subject, ok := subjects[msg.Kind]
	if !ok {
		return Rendered{}, fmt.Errorf("unknown mail kind: %q", msg.Kind)
	}

	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, string(msg.Kind)+".txt", msg.Data); err != nil {
		return Rendered{}, fmt.Errorf("failed to render text template: %w", err)
	}

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, string(msg.Kind)+".html", msg.Data); err != nil {
		return Rendered{}, fmt.Errorf("failed to render html template: %w", err)
	}

	return Rendered{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
