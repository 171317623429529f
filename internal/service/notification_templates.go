package service

import (
	"bytes"
	"html/template"
)

// Template refs used by appraisal notifications.
const (
	TemplateAppraisalAssigned      = "appraisal_assigned"
	TemplateAppraisalEscalated     = "appraisal_escalated"
	TemplateAppraisalApproved      = "appraisal_approved"
	TemplateAppraisalRejected      = "appraisal_rejected"
	TemplateAppraisalStatusChanged = "appraisal_status_changed"
	templateGeneric                = "generic"
)

var notificationTemplates = template.Must(template.New("notifications").Parse(`
{{define "layout_start"}}<!doctype html><html><body style="font-family:Arial,sans-serif;color:#1f2933"><h2>{{.Title}}</h2>{{end}}
{{define "layout_end"}}<p style="color:#7b8794;font-size:12px">This is an automated message from the HR platform.</p></body></html>{{end}}
{{define "generic"}}{{template "layout_start" .}}<p>{{.Message}}</p>{{template "layout_end" .}}{{end}}
{{define "appraisal_assigned"}}{{template "layout_start" .}}<p>{{.Message}}</p><p>Cycle: <strong>{{.Period}}</strong>. Please complete your self-assessment before <strong>{{.DueDate}}</strong>.</p>{{template "layout_end" .}}{{end}}
{{define "appraisal_escalated"}}{{template "layout_start" .}}<p>{{.Message}}</p><p>The appraisal "{{.AppraisalTitle}}" is waiting for HR review.</p>{{template "layout_end" .}}{{end}}
{{define "appraisal_approved"}}{{template "layout_start" .}}<p>{{.Message}}</p><p>Final score: <strong>{{.FinalScore}}</strong></p>{{template "layout_end" .}}{{end}}
{{define "appraisal_rejected"}}{{template "layout_start" .}}<p>{{.Message}}</p>{{if .RevisionReason}}<p>Reason: {{.RevisionReason}}</p>{{end}}{{template "layout_end" .}}{{end}}
{{define "appraisal_status_changed"}}{{template "layout_start" .}}<p>{{.Message}}</p><p>New status: <strong>{{.Status}}</strong></p>{{template "layout_end" .}}{{end}}
`))

// renderNotificationEmail renders the template named by ref, falling back to the generic layout.
func renderNotificationEmail(ref, title, message string, data map[string]interface{}) (string, error) {
	values := map[string]interface{}{}
	for key, value := range data {
		values[key] = value
	}
	values["Title"] = title
	values["Message"] = message

	name := ref
	if name == "" || notificationTemplates.Lookup(name) == nil {
		name = templateGeneric
	}

	var buf bytes.Buffer
	if err := notificationTemplates.ExecuteTemplate(&buf, name, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
