package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeInput_Presence(t *testing.T) {
	var in EmployeeInput
	require.NoError(t, json.Unmarshal([]byte(`{"phone":"555-1234","hire_date":null}`), &in))

	assert.True(t, in.Phone.Set)
	assert.False(t, in.Phone.Null)
	assert.Equal(t, "555-1234", in.Phone.Value)

	assert.True(t, in.HireDate.Set)
	assert.True(t, in.HireDate.Null)

	assert.False(t, in.Name.Set, "absent key must stay unset")
	assert.False(t, in.Salary.Set)
}

func TestNumericText_AcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		body string
		want NumericText
	}{
		{`{"salary":"12000.50"}`, "12000.50"},
		{`{"salary":12000.5}`, "12000.5"},
		{`{"salary":"abc"}`, "abc"},
		{`{"salary":true}`, "true"},
	}

	for _, tt := range tests {
		var in EmployeeInput
		require.NoError(t, json.Unmarshal([]byte(tt.body), &in), tt.body)
		assert.True(t, in.Salary.Set)
		assert.Equal(t, tt.want, in.Salary.Value)
	}
}

func TestEmployee_MarshalJSON(t *testing.T) {
	hired := time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC)
	salary := decimal.RequireFromString("12000.50")

	e := Employee{
		ID:         7,
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Position:   "Engineer",
		Department: "R&D",
		HireDate:   &hired,
		Salary:     &salary,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, float64(7), got["id"])
	assert.Equal(t, "2021-03-09", got["hire_date"])
	assert.Equal(t, 12000.5, got["salary"])
	assert.Nil(t, got["phone"])
	assert.Contains(t, got, "phone", "unset optional fields are rendered as null")
}

func TestEmployee_MarshalJSON_NullSalary(t *testing.T) {
	data, err := json.Marshal(Employee{ID: 1, Name: "n", Email: "e", Position: "p", Department: "d"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"salary":null`)
	assert.Contains(t, string(data), `"hire_date":null`)
}
