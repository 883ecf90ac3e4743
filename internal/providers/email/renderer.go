// internal/providers/email/renderer.go
package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// TemplateType selects which notification template to render.
type TemplateType string

const (
	TemplateCompliant TemplateType = "Compliant"
	TemplateSuspended TemplateType = "Suspended"
	TemplateBanned    TemplateType = "Banned"
)

// RenderRequest carries the parameters of one render.
type RenderRequest struct {
	OrganizationID string
	Type           TemplateType
	AppealURL      string
}

// RenderedTemplate is the output of a render: subject plus an HTML body
// for the email and a text body for the message log.
type RenderedTemplate struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type templateData struct {
	AppealURL string
}

type emailTemplate struct {
	subject string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

var templates = map[TemplateType]emailTemplate{
	TemplateCompliant: {
		subject: "Your account has been reinstated",
		html: htmltemplate.Must(htmltemplate.New("compliant").Parse(
			`<p>Good news — after review, your account is back in good standing. Payments and payouts have been restored.</p>`)),
		text: texttemplate.Must(texttemplate.New("compliant").Parse(
			`Good news — after review, your account is back in good standing. Payments and payouts have been restored.`)),
	},
	TemplateSuspended: {
		subject: "Your account has been suspended",
		html: htmltemplate.Must(htmltemplate.New("suspended").Parse(
			`<p>Your account has been suspended for violating our content policies. Payments and payouts are paused while the suspension is in effect.</p>` +
				`{{if .AppealURL}}<p>If you believe this is a mistake, you can <a href="{{.AppealURL}}">submit an appeal</a>.</p>{{end}}`)),
		text: texttemplate.Must(texttemplate.New("suspended").Parse(
			`Your account has been suspended for violating our content policies. Payments and payouts are paused while the suspension is in effect.` +
				`{{if .AppealURL}}

If you believe this is a mistake, you can submit an appeal: {{.AppealURL}}{{end}}`)),
	},
	TemplateBanned: {
		subject: "Your account has been banned",
		html: htmltemplate.Must(htmltemplate.New("banned").Parse(
			`<p>Your account has been permanently banned for repeated or severe violations of our content policies. Payments and payouts have been stopped.</p>`)),
		text: texttemplate.Must(texttemplate.New("banned").Parse(
			`Your account has been permanently banned for repeated or severe violations of our content policies. Payments and payouts have been stopped.`)),
	},
}

// Renderer produces notification templates for an organization.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render renders the requested template. Unknown types are a programming
// error on the caller's side.
func (r *Renderer) Render(req RenderRequest) (*RenderedTemplate, error) {
	tpl, ok := templates[req.Type]
	if !ok {
		return nil, fmt.Errorf("no template for type %q", req.Type)
	}

	data := templateData{AppealURL: req.AppealURL}

	var htmlBuf bytes.Buffer
	if err := tpl.html.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var textBuf bytes.Buffer
	if err := tpl.text.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}

	return &RenderedTemplate{
		Subject: tpl.subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}, nil
}
