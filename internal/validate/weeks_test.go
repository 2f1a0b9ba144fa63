package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := ParseDate(v)
	require.NoError(t, err)
	return d
}

func TestPregnancyWeeks(t *testing.T) {
	today := mustDate(t, "20150817")

	tests := []struct {
		lmp  string
		want int
	}{
		{"20150202", 28},
		{"20150612", 9},
		{"20150605", 10},
		{"20150817", 0},
		{"20150810", 2},
		{"20150804", 2},
		{"20150803", 2},
		{"20150727", 3},
		{"20150818", -1},
		{"20130101", 136},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PregnancyWeeks(today, mustDate(t, tt.lmp)), tt.lmp)
	}
}

func TestPregnancyWeeksNeverOne(t *testing.T) {
	today := mustDate(t, "20150817")
	for days := 0; days < 400; days++ {
		lmp := today.AddDate(0, 0, -days)
		assert.NotEqual(t, 1, PregnancyWeeks(today, lmp), "days=%d", days)
	}
}

func TestInfantAgeWeeks(t *testing.T) {
	today := mustDate(t, "20150817")

	assert.Equal(t, 28, InfantAgeWeeks(today, mustDate(t, "20150202")))
	assert.Equal(t, 0, InfantAgeWeeks(today, today))
	assert.Equal(t, 1, InfantAgeWeeks(today, mustDate(t, "20150810")))
	assert.Equal(t, InvalidWeeks, InfantAgeWeeks(today, mustDate(t, "20150818")))
	assert.Equal(t, 108, InfantAgeWeeks(today, mustDate(t, "20130717")))
}

func TestWeeksIgnoreTimeOfDay(t *testing.T) {
	today := time.Date(2015, 8, 17, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 28, PregnancyWeeks(today, mustDate(t, "20150202")))
	assert.Equal(t, 0, InfantAgeWeeks(today, mustDate(t, "20150817")))
}

func TestCurrentWeeks(t *testing.T) {
	today := mustDate(t, "20150817")

	w, err := CurrentWeeks(model.StagePrebirth, model.Data{"last_period_date": "20150202"}, today)
	require.NoError(t, err)
	assert.Equal(t, 28, w)

	w, err = CurrentWeeks(model.StagePostbirth, model.Data{"baby_dob": "20150727"}, today)
	require.NoError(t, err)
	assert.Equal(t, 3, w)

	w, err = CurrentWeeks(model.StageLoss, model.Data{}, today)
	require.NoError(t, err)
	assert.Zero(t, w)

	_, err = CurrentWeeks(model.StagePrebirth, model.Data{}, today)
	assert.Error(t, err)
	_, err = CurrentWeeks(model.StagePostbirth, model.Data{"baby_dob": "yesterday"}, today)
	assert.Error(t, err)
}
