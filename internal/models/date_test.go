package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScan(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"time", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "2024-02-29"},
		{"text", "2024-12-31", "2024-12-31"},
		{"timestamp text", "2024-01-05 00:00:00+00:00", "2024-01-05"},
		{"bytes", []byte("2023-03-01"), "2023-03-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tc.in))
			assert.Equal(t, tc.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("not-a-date"))
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.February, 22)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-22"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"22/02/2026"`), &back))
}

func TestDateValueAndAddDays(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", v)
	assert.Equal(t, "2024-02-29", d.AddDays(-1).String())
}

func TestBudgetScope(t *testing.T) {
	id := "cat-1"
	assert.Equal(t, OverallScope, ScopeFor(nil))
	assert.Equal(t, "cat-1", ScopeFor(&id))

	overall := Budget{}
	assert.Equal(t, OverallBudgetName, overall.DisplayName())

	scoped := Budget{CategoryID: &id, Category: &Category{Name: "Food"}}
	assert.Equal(t, "Food", scoped.DisplayName())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodCard.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
	assert.True(t, BudgetPeriodWeekly.Valid())
	assert.False(t, BudgetPeriod("hourly").Valid())
}
