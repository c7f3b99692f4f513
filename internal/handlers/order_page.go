package handlers

import (
	"bytes"
	"html/template"
	"sort"

	"nemora-backend/internal/models"
)

var orderPageTemplate = template.Must(template.New("order").Parse(`<html>
  <head>
    <meta charset="utf-8" />
    <title>Nemora Order {{.ID}}</title>
    <style>
      body { font-family: Arial, sans-serif; background: #0b1220; color: #f8fafc; padding: 24px; }
      .card { max-width: 720px; margin: 0 auto; background: #111827; border-radius: 16px; padding: 24px; }
      h1 { margin: 0 0 16px; }
      .row { margin-bottom: 10px; color: #cbd5f5; }
      a { color: #60a5fa; }
      img { max-width: 100%; border-radius: 12px; margin-top: 16px; }
    </style>
  </head>
  <body>
    <div class="card">
      <h1>Nemora Order</h1>
      <div class="row"><strong>ID:</strong> {{.ID}}</div>
      <div class="row"><strong>Created:</strong> {{.CreatedAt}}</div>
      <div class="row"><strong>Name:</strong> {{.Details.Name}}</div>
      <div class="row"><strong>Phone:</strong> {{.Details.Phone}}</div>
      <div class="row"><strong>Address:</strong> {{.Details.Address}}</div>
      <div class="row"><strong>Brand:</strong> {{.Details.BrandName}}</div>
      <div class="row"><strong>Brand link:</strong> {{.Details.BrandWebsite}}</div>
      <div class="row"><strong>Brand social:</strong> {{.Details.BrandSocial}}</div>
      <div class="row"><strong>Quantity:</strong> {{.Details.Quantity}}</div>
      <div class="row"><strong>Shape:</strong> {{.Details.Shape}}</div>
      <div class="row"><strong>Technique:</strong> {{.Details.Technique}}</div>
      <div class="row"><strong>Embroidery:</strong> {{.Details.Embroidery}}</div>
      <div class="row"><strong>Size:</strong> {{.Details.Size}}</div>
      <div class="row"><strong>Color:</strong> {{.Details.Color}}</div>
      <div class="row"><strong>Notes:</strong> {{.Details.Notes}}</div>
      {{- range .Extras}}
      <div class="row"><strong>{{.Key}}:</strong> {{.Value}}</div>
      {{- end}}
      <div class="row"><strong>File:</strong> <a href="{{.FileURL}}">{{if .FileName}}{{.FileName}}{{else}}{{.FileURL}}{{end}}</a></div>
      <div class="row"><strong>Order:</strong> <a href="{{.OrderURL}}">{{.OrderURL}}</a></div>
      <img src="{{.FileURL}}" alt="Design preview" />
    </div>
  </body>
</html>
`))

type extraField struct {
	Key   string
	Value string
}

type orderPage struct {
	*models.Order
	Extras []extraField
}

func renderOrderPage(order *models.Order) ([]byte, error) {
	page := orderPage{Order: order}
	keys := make([]string, 0, len(order.Details.Extra))
	for k := range order.Details.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		page.Extras = append(page.Extras, extraField{Key: k, Value: order.Details.Get(k)})
	}

	var buf bytes.Buffer
	if err := orderPageTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
