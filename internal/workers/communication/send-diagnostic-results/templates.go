// internal/workers/communication/send-diagnostic-results/templates.go
package senddiagnosticresults

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"diagnostic-workers/internal/models"
)

type emailData struct {
	FirstName                 string
	Stage                     string
	StageDescription          string
	Bottleneck                string
	BottleneckDescription     string
	WhatToAvoid               string
	RecommendationName        string
	RecommendationDescription string
	Link                      string
}

var (
	subjectTemplate = texttemplate.Must(texttemplate.New("subject").Parse(
		`Your Growth Diagnostic result: {{.Stage}} stage, {{.Bottleneck}} bottleneck`))

	textTemplate = texttemplate.Must(texttemplate.New("text").Parse(`Hi {{if .FirstName}}{{.FirstName}}{{else}}there{{end}},

Thanks for taking the Growth Diagnostic. Here is where your business stands today.

Stage: {{.Stage}}
{{.StageDescription}}

Biggest bottleneck: {{.Bottleneck}}
{{.BottleneckDescription}}

What to avoid right now:
{{.WhatToAvoid}}

Recommended next step: {{.RecommendationName}}
{{.RecommendationDescription}}
{{.Link}}
`))

	htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(`<html><body>
<p>Hi {{if .FirstName}}{{.FirstName}}{{else}}there{{end}},</p>
<p>Thanks for taking the Growth Diagnostic. Here is where your business stands today.</p>
<h2>Stage: {{.Stage}}</h2>
<p>{{.StageDescription}}</p>
<h2>Biggest bottleneck: {{.Bottleneck}}</h2>
<p>{{.BottleneckDescription}}</p>
<h3>What to avoid right now</h3>
<p>{{.WhatToAvoid}}</p>
<h3>Recommended next step: {{.RecommendationName}}</h3>
<p>{{.RecommendationDescription}}</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
</body></html>
`))
)

// recommendationLink joins the site base URL and a recommendation route.
// Absolute routes are returned unchanged.
func recommendationLink(baseURL, route string) string {
	if route == "" || strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return route
	}
	if baseURL == "" {
		return route
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(route, "/")
}

func newEmailData(input *Input, baseURL string) emailData {
	c := input.Classification
	return emailData{
		FirstName:                 strings.TrimSpace(input.FirstName),
		Stage:                     string(c.Stage),
		StageDescription:          c.StageDescription,
		Bottleneck:                c.Bottleneck.Label(),
		BottleneckDescription:     c.BottleneckDescription,
		WhatToAvoid:               c.WhatToAvoid,
		RecommendationName:        c.RecommendedSystem.Name,
		RecommendationDescription: c.RecommendedSystem.Description,
		Link:                      recommendationLink(baseURL, c.RecommendedSystem.Route),
	}
}

func renderEmail(data emailData) (*models.NotificationTemplate, error) {
	var subject, text, html strings.Builder

	if err := subjectTemplate.Execute(&subject, data); err != nil {
		return nil, err
	}
	if err := textTemplate.Execute(&text, data); err != nil {
		return nil, err
	}
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return nil, err
	}

	return &models.NotificationTemplate{
		Subject:  subject.String(),
		Body:     text.String(),
		HTMLBody: html.String(),
	}, nil
}

