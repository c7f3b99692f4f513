package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/models"
)

func TestOrderDetails_CoercesScalars(t *testing.T) {
	var d models.OrderDetails
	err := json.Unmarshal([]byte(`{"name":"Sara","quantity":50,"embroidery":true,"notes":null}`), &d)
	require.NoError(t, err)

	assert.Equal(t, "Sara", d.Name)
	assert.Equal(t, "50", d.Quantity)
	assert.Equal(t, "true", d.Embroidery)
	assert.Empty(t, d.Notes)
	assert.Nil(t, d.Extra)
}

func TestOrderDetails_KeepsUnknownKeys(t *testing.T) {
	var d models.OrderDetails
	require.NoError(t, json.Unmarshal([]byte(`{"size":"M","fabric":"cotton"}`), &d))

	assert.Equal(t, "cotton", d.Get("fabric"))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":"M","fabric":"cotton"}`, string(out))
}

func TestOrderDetails_RejectsNonObject(t *testing.T) {
	var d models.OrderDetails
	assert.Error(t, json.Unmarshal([]byte(`"just text"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
}

func TestCreateOrderRequest_NullDetails(t *testing.T) {
	var req models.CreateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"fileUrl":"https://x/u/1.png","details":null}`), &req))
	assert.Nil(t, req.Details)
}

func TestOrderDetails_KeepsNonScalarKnownKeysVerbatim(t *testing.T) {
	in := `{"name":"Sara","color":{"primary":"red","accent":"gold"},"size":["S","M"],"embroidery":false}`
	var d models.OrderDetails
	require.NoError(t, json.Unmarshal([]byte(in), &d))

	assert.Equal(t, "Sara", d.Name)
	assert.Empty(t, d.Color)
	assert.Empty(t, d.Size)
	assert.Empty(t, d.Embroidery)
	assert.JSONEq(t, `{"primary":"red","accent":"gold"}`, string(d.Extra["color"]))
	assert.JSONEq(t, `["S","M"]`, string(d.Extra["size"]))
	assert.Equal(t, "false", string(d.Extra["embroidery"]))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestOrderDetails_GetTreatsFalseAsMissing(t *testing.T) {
	var d models.OrderDetails
	require.NoError(t, json.Unmarshal([]byte(`{"embroidery":false,"quantity":"50"}`), &d))

	assert.Equal(t, "", d.Get("embroidery"))
	assert.Equal(t, "50", d.Get("quantity"))
}
