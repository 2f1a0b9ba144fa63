package validate

import (
	"fmt"
	"time"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// InvalidWeeks is returned by InfantAgeWeeks for a birth date in the future.
const InvalidWeeks = -1

// PregnancyWeeks returns the whole weeks elapsed since the last menstrual
// period. A result of exactly one week is reported as two.
func PregnancyWeeks(today, lmp time.Time) int {
	weeks := floorDiv(daysBetween(lmp, today), 7)
	if weeks == 1 {
		return 2
	}
	return weeks
}

// InfantAgeWeeks returns the baby's age in whole weeks, or InvalidWeeks when
// dob is after today.
func InfantAgeWeeks(today, dob time.Time) int {
	days := daysBetween(dob, today)
	if days < 0 {
		return InvalidWeeks
	}
	return days / 7
}

// daysBetween counts calendar days from a to b in UTC.
func daysBetween(a, b time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	return int((truncateDay(b).Unix() - truncateDay(a).Unix()) / secondsPerDay)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CurrentWeeks recomputes the weeks value a stage's streams are positioned
// by, as of today: pregnancy weeks for prebirth, baby age for postbirth and
// zero otherwise.
func CurrentWeeks(stage model.Stage, data model.Data, today time.Time) (int, error) {
	var key string
	switch stage {
	case model.StagePrebirth:
		key = model.KeyLastPeriodDate
	case model.StagePostbirth:
		key = model.KeyBabyDOB
	default:
		return 0, nil
	}
	raw, ok := data.String(key)
	if !ok {
		return 0, fmt.Errorf("%s missing or not a string", key)
	}
	d, err := ParseDate(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if stage == model.StagePrebirth {
		return PregnancyWeeks(today, d), nil
	}
	return InfantAgeWeeks(today, d), nil
}
