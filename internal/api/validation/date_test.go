package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault/internal/api/validation"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	got, err := validation.ParseDate("1990-02-28")
	require.NoError(t, err)
	assert.Equal(t, date(1990, time.February, 28), got)

	for _, bad := range []string{"", "28/02/1990", "1990-2-28", "1990-02-30", "yesterday"} {
		_, err := validation.ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2001-09-05", validation.FormatDate(date(2001, time.September, 5)))
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name      string
		birthdate time.Time
		today     time.Time
		want      int
	}{
		{name: "birthday today", birthdate: date(2000, time.July, 21), today: date(2018, time.July, 21), want: 18},
		{name: "day before birthday", birthdate: date(2000, time.July, 21), today: date(2018, time.July, 20), want: 17},
		{name: "month before birthday", birthdate: date(2000, time.July, 21), today: date(2018, time.June, 30), want: 17},
		{name: "after birthday", birthdate: date(2000, time.July, 21), today: date(2018, time.December, 1), want: 18},
		{name: "leap day in a common year", birthdate: date(2000, time.February, 29), today: date(2018, time.February, 28), want: 17},
		{name: "leap day the day after", birthdate: date(2000, time.February, 29), today: date(2018, time.March, 1), want: 18},
		{name: "born today", birthdate: date(2018, time.July, 21), today: date(2018, time.July, 21), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.AgeAt(tt.birthdate, tt.today))
		})
	}
}
