package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "negative offset", input: "-31"},
		{name: "zero offset is today", input: "0"},
		{name: "absolute date", input: "2023-05-10"},
		{name: "leap day", input: "2024-02-29"},
		{name: "positive offset", input: "5", wantErr: true},
		{name: "bare month", input: "2023-05", wantErr: true},
		{name: "impossible day", input: "2023-02-30", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMonthEnds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
		wantErr   bool
	}{
		{name: "leap february", input: "2024-02", wantFirst: "2024-02-01", wantLast: "2024-02-29"},
		{name: "plain february", input: "2023-02", wantFirst: "2023-02-01", wantLast: "2023-02-28"},
		{name: "thirty days", input: "2023-04", wantFirst: "2023-04-01", wantLast: "2023-04-30"},
		{name: "thirty one days", input: "2023-12", wantFirst: "2023-12-01", wantLast: "2023-12-31"},
		{name: "full date", input: "2023-05-10", wantErr: true},
		{name: "offset", input: "-31", wantErr: true},
		{name: "garbage", input: "may 2023", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, err := MonthEnds(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestNormalizeDates(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{
			name:  "both months expand",
			start: "2023-02", end: "2023-03",
			wantStart: "2023-02-01", wantEnd: "2023-03-31",
		},
		{
			name:  "same month yields full month",
			start: "2024-02", end: "2024-02",
			wantStart: "2024-02-01", wantEnd: "2024-02-29",
		},
		{
			name:  "offsets pass through",
			start: "-31", end: "-1",
			wantStart: "-31", wantEnd: "-1",
		},
		{
			name:  "full dates pass through",
			start: "2023-05-01", end: "2023-05-10",
			wantStart: "2023-05-01", wantEnd: "2023-05-10",
		},
		{
			name:  "mixed forms",
			start: "2023-05", end: "-1",
			wantStart: "2023-05-01", wantEnd: "-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := NormalizeDates(tt.start, tt.end)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t,
		"TIMESTAMP_ADD(CURRENT_TIMESTAMP(), INTERVAL -31 DAY)",
		formatDate("-31", startTimestampTpl))
	assert.Equal(t,
		"TIMESTAMP_ADD(CURRENT_TIMESTAMP(), INTERVAL 0 DAY)",
		formatDate("0", endTimestampTpl))
	assert.Equal(t,
		`TIMESTAMP("2023-05-01 00:00:00")`,
		formatDate("2023-05-01", startTimestampTpl))
	assert.Equal(t,
		`TIMESTAMP("2023-05-10 23:59:59")`,
		formatDate("2023-05-10", endTimestampTpl))
}
