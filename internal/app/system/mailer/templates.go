// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ApplicationEmailData holds data for new-application notification emails.
type ApplicationEmailData struct {
	SiteName  string
	Name      string
	Email     string
	School    string
	Phone     string
	Message   string
	CVName    string // filename only; attachments are never forwarded
	TrName    string
	Timestamp time.Time
	AdminURL  string // link to the admin applications list
}

// BuildApplicationEmail creates the notification sent to the configured
// notification address when someone submits the join-us form.
func BuildApplicationEmail(data ApplicationEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("New application to %s from %s", data.SiteName, data.Name),
		TextBody: buildApplicationText(data),
		HTMLBody: buildApplicationHTML(data),
	}
}

func buildApplicationText(data ApplicationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("A new application arrived at %s.\n\n", data.SiteName))
	buf.WriteString("Name:   " + data.Name + "\n")
	buf.WriteString("Email:  " + data.Email + "\n")
	if data.School != "" {
		buf.WriteString("School: " + data.School + "\n")
	}
	if data.Phone != "" {
		buf.WriteString("Phone:  " + data.Phone + "\n")
	}
	if data.CVName != "" {
		buf.WriteString("CV:     " + data.CVName + " (ask the applicant to email it)\n")
	}
	if data.TrName != "" {
		buf.WriteString("Transcript: " + data.TrName + "\n")
	}
	if data.Message != "" {
		buf.WriteString("\n" + data.Message + "\n")
	}
	buf.WriteString("\n")
	if data.AdminURL != "" {
		buf.WriteString("Review it here:\n" + data.AdminURL + "\n")
	}
	return buf.String()
}

func buildApplicationHTML(data ApplicationEmailData) string {
	tmpl := template.Must(template.New("application").Parse(applicationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const applicationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Application</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 520px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
              <p style="margin: 8px 0 0; font-size: 14px; color: #6b7280;">New application received</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px;">
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="font-size: 14px; color: #111827;">
                <tr><td style="padding: 4px 0; width: 90px; color: #6b7280;">Name</td><td style="padding: 4px 0;">{{.Name}}</td></tr>
                <tr><td style="padding: 4px 0; color: #6b7280;">Email</td><td style="padding: 4px 0;">{{.Email}}</td></tr>
                {{if .School}}<tr><td style="padding: 4px 0; color: #6b7280;">School</td><td style="padding: 4px 0;">{{.School}}</td></tr>{{end}}
                {{if .Phone}}<tr><td style="padding: 4px 0; color: #6b7280;">Phone</td><td style="padding: 4px 0;">{{.Phone}}</td></tr>{{end}}
                {{if .CVName}}<tr><td style="padding: 4px 0; color: #6b7280;">CV</td><td style="padding: 4px 0;">{{.CVName}}</td></tr>{{end}}
                {{if .TrName}}<tr><td style="padding: 4px 0; color: #6b7280;">Transcript</td><td style="padding: 4px 0;">{{.TrName}}</td></tr>{{end}}
              </table>
              {{if .Message}}<p style="margin: 16px 0 0; font-size: 14px; color: #111827; white-space: pre-line;">{{.Message}}</p>{{end}}
            </td>
          </tr>
          {{if .AdminURL}}
          <tr>
            <td style="padding: 0 32px 32px; text-align: center;">
              <a href="{{.AdminURL}}" style="display: inline-block; padding: 10px 24px; background-color: #4f46e5; color: #ffffff; text-decoration: none; border-radius: 6px; font-size: 14px; font-weight: 500;">Review application</a>
            </td>
          </tr>
          {{end}}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
