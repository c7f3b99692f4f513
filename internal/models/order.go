package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Order is the persisted record, stored as {ordersDir}/{id}.json.
type Order struct {
	ID        string       `json:"id"`
	FileURL   string       `json:"fileUrl"`
	FileName  string       `json:"fileName"`
	Details   OrderDetails `json:"details"`
	OrderURL  string       `json:"orderUrl"`
	CreatedAt string       `json:"createdAt"`
}

// OrderDetails holds the customer supplied fields of an order. Every field is
// optional. Keys the storefront sends that are not listed here are kept in
// Extra so they survive persistence untouched.
type OrderDetails struct {
	Name         string
	Phone        string
	Address      string
	BrandName    string
	BrandWebsite string
	BrandSocial  string
	Quantity     string
	Shape        string
	Technique    string
	Embroidery   string
	Size         string
	Color        string
	Notes        string

	Extra map[string]json.RawMessage
}

func (d *OrderDetails) fields() []struct {
	key string
	val *string
} {
	return []struct {
		key string
		val *string
	}{
		{"name", &d.Name},
		{"phone", &d.Phone},
		{"address", &d.Address},
		{"brandName", &d.BrandName},
		{"brandWebsite", &d.BrandWebsite},
		{"brandSocial", &d.BrandSocial},
		{"quantity", &d.Quantity},
		{"shape", &d.Shape},
		{"technique", &d.Technique},
		{"embroidery", &d.Embroidery},
		{"size", &d.Size},
		{"color", &d.Color},
		{"notes", &d.Notes},
	}
}

// UnmarshalJSON accepts any JSON object. Strings, numbers and true under
// known keys are coerced to strings, so {"quantity": 50} reads as Quantity
// "50". Anything else under a known key (false, objects, arrays) leaves the
// field empty and is kept verbatim in Extra; null is dropped.
func (d *OrderDetails) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("details must be an object: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("details must be an object")
	}

	*d = OrderDetails{}
	for _, f := range d.fields() {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if text, ok := scalarText(value); ok {
			*f.val = text
			delete(raw, f.key)
		} else if isNull(value) {
			delete(raw, f.key)
		}
	}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

func (d OrderDetails) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+13)
	for k, v := range d.Extra {
		out[k] = v
	}
	for _, f := range d.fields() {
		if *f.val == "" {
			continue
		}
		encoded, err := json.Marshal(*f.val)
		if err != nil {
			return nil, err
		}
		out[f.key] = encoded
	}
	return json.Marshal(out)
}

// Get returns the value stored under a storefront key, known or extra.
func (d *OrderDetails) Get(key string) string {
	for _, f := range d.fields() {
		if f.key == key && *f.val != "" {
			return *f.val
		}
	}
	if v, ok := d.Extra[key]; ok {
		return scalarString(v)
	}
	return ""
}

// scalarText converts a JSON string, number or true to text. It reports
// false for every other value.
func scalarText(value json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return "", false
	}
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, true
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return n.String(), true
		}
	case bytes.Equal(trimmed, []byte("true")):
		return "true", true
	}
	return "", false
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// scalarString renders any JSON value as display text: scalars via
// scalarText, false and null as empty, objects and arrays as their JSON.
func scalarString(value json.RawMessage) string {
	if text, ok := scalarText(value); ok {
		return text
	}
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || isNull(trimmed) || bytes.Equal(trimmed, []byte("false")) {
		return ""
	}
	return string(trimmed)
}
