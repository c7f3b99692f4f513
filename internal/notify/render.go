package notify

import (
	"bytes"
	"html/template"
	"strings"

	"nemora-backend/internal/models"
)

const (
	missingValue  = "-"
	messageHeader = "New Nemora order"
)

// Row is one labeled field of an order rendering.
type Row struct {
	Label string
	Value string
	Link  bool
}

// Rows lists the order fields in their fixed display order, using "-" for
// anything missing.
func Rows(order *models.Order) []Row {
	d := order.Details
	rows := []Row{
		{Label: "ID", Value: order.ID},
		{Label: "Created", Value: order.CreatedAt},
		{Label: "Name", Value: d.Name},
		{Label: "Phone", Value: d.Phone},
		{Label: "Address", Value: d.Address},
		{Label: "Brand", Value: d.BrandName},
		{Label: "Brand link", Value: d.BrandWebsite},
		{Label: "Brand social", Value: d.BrandSocial},
		{Label: "Quantity", Value: d.Quantity},
		{Label: "Shape", Value: d.Shape},
		{Label: "Technique", Value: d.Technique},
		{Label: "Embroidery", Value: d.Embroidery},
		{Label: "Size", Value: d.Size},
		{Label: "Color", Value: d.Color},
		{Label: "Notes", Value: d.Notes},
		{Label: "File", Value: order.FileURL, Link: true},
		{Label: "Order", Value: order.OrderURL, Link: true},
	}
	for i := range rows {
		if strings.TrimSpace(rows[i].Value) == "" {
			rows[i].Value = missingValue
			rows[i].Link = false
		}
	}
	return rows
}

// PlainText is the rendering shared by the webhook and Telegram channels.
func PlainText(order *models.Order) string {
	rows := Rows(order)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, messageHeader)
	for _, r := range rows {
		lines = append(lines, r.Label+": "+r.Value)
	}
	return strings.Join(lines, "\n")
}

var emailTemplate = template.Must(template.New("email").Parse(`<div style="font-family:Arial, sans-serif; background:#f8fafc; padding:24px;">
  <div style="max-width:680px; margin:0 auto; background:#ffffff; border-radius:12px; padding:24px; border:1px solid #e5e7eb;">
    <h2 style="margin:0 0 16px; color:#111827;">{{.Title}}</h2>
    <table style="width:100%; border-collapse:collapse;">
      {{- range .Rows}}
      <tr><td style="padding:6px 10px;color:#6b7280;font-weight:600;">{{.Label}}</td><td style="padding:6px 10px;color:#111827;">{{if .Link}}<a href="{{.Value}}">{{.Value}}</a>{{else}}{{.Value}}{{end}}</td></tr>
      {{- end}}
    </table>
    {{- if .PreviewSrc}}
    <div style="margin-top:16px;">
      <div style="margin-bottom:8px;color:#6b7280;font-weight:600;">Design preview</div>
      <img src="{{.PreviewSrc}}" alt="Design preview" style="max-width:100%; border-radius:12px; border:1px solid #e5e7eb;" />
    </div>
    {{- end}}
  </div>
</div>
`))

// EmailHTML renders the email body. When previewCID is set the body embeds
// the inline attachment with that content id.
func EmailHTML(order *models.Order, previewCID string) (string, error) {
	data := struct {
		Title      string
		Rows       []Row
		PreviewSrc template.URL
	}{
		Title: messageHeader,
		Rows:  Rows(order),
	}
	if previewCID != "" {
		data.PreviewSrc = template.URL("cid:" + template.URLQueryEscaper(previewCID))
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
