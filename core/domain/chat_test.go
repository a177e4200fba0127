package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/growthsystem/erpchat/core/domain"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "Acme", "Acme"},
		{"bytes", []byte("raw"), "raw"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(1200), "1200"},
		{"float64 without trailing zeros", 0.5, "0.5"},
		{"float64 integral", float64(10), "10"},
		{"time", time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC), "2026-08-25 09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.Stringify(tt.value))
		})
	}
}

func TestRow_String(t *testing.T) {
	r := domain.Row{
		Columns: []string{"name", "balance", "active"},
		Values:  map[string]any{"name": "Acme", "balance": 500, "active": true},
	}

	assert.Equal(t, "name: Acme, balance: 500, active: true", r.String())
}

func TestRow_StringEmpty(t *testing.T) {
	assert.Equal(t, "", domain.Row{}.String())
}

func TestRow_Get(t *testing.T) {
	r := domain.Row{
		Columns: []string{"name"},
		Values:  map[string]any{"name": "Acme"},
	}

	v, ok := r.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Acme", v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestReject(t *testing.T) {
	v := domain.Reject("no read permission for %s", "Supplier")

	assert.False(t, v.Allowed)
	assert.Equal(t, "no read permission for Supplier", v.Reason)
}

func TestAllow(t *testing.T) {
	v := domain.Allow()

	assert.True(t, v.Allowed)
	assert.Empty(t, v.Reason)
}
