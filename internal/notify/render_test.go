package notify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/models"
	"nemora-backend/internal/notify"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:       "1700000000000-abc123",
		FileURL:  "https://shop.example.com/uploads/1700000000000-logo.png",
		FileName: "logo.png",
		Details: models.OrderDetails{
			Name:      "Sara",
			Phone:     "0100",
			Address:   "Cairo",
			BrandName: "Acme",
			Size:      "M",
		},
		OrderURL:  "https://shop.example.com/orders/1700000000000-abc123",
		CreatedAt: "2023-11-14T22:13:20.000Z",
	}
}

func TestPlainText_FixedOrderWithFallback(t *testing.T) {
	text := notify.PlainText(sampleOrder())
	lines := strings.Split(text, "\n")

	require.Len(t, lines, 18)
	assert.Equal(t, "New Nemora order", lines[0])
	assert.Equal(t, "ID: 1700000000000-abc123", lines[1])
	assert.Equal(t, "Name: Sara", lines[3])
	assert.Equal(t, "Brand: Acme", lines[6])
	assert.Equal(t, "Brand link: -", lines[7])
	assert.Equal(t, "Quantity: -", lines[9])
	assert.Equal(t, "Size: M", lines[13])
	assert.Equal(t, "Notes: -", lines[15])
	assert.Equal(t, "File: https://shop.example.com/uploads/1700000000000-logo.png", lines[16])
	assert.Equal(t, "Order: https://shop.example.com/orders/1700000000000-abc123", lines[17])
}

func TestEmailHTML_EscapesAndEmbedsPreview(t *testing.T) {
	order := sampleOrder()
	order.Details.Notes = `<script>alert("x")</script> & 'quotes'`

	html, err := notify.EmailHTML(order, notify.PreviewCID(order.ID))
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&#39;quotes&#39;")
	assert.Contains(t, html, `src="cid:design-1700000000000-abc123"`)
	assert.Contains(t, html, `<a href="https://shop.example.com/orders/1700000000000-abc123">`)
}

func TestEmailHTML_NoPreview(t *testing.T) {
	order := sampleOrder()
	order.OrderURL = ""

	html, err := notify.EmailHTML(order, "")
	require.NoError(t, err)

	assert.NotContains(t, html, "Design preview")
	assert.NotContains(t, html, `<a href="-">`)
}
