package messageset

import (
	"strconv"
	"strings"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// RangeStart returns the first week covered by a week range bucket.
func RangeStart(weekRange string) int {
	start, _, _ := strings.Cut(weekRange, "_")
	n, err := strconv.Atoi(start)
	if err != nil {
		return 0
	}
	return n
}

// NextSequenceNumber is the first message position for a new subscriber:
// one message per scheduled weekday for every week since the stream's
// range began. Loss streams always start at the beginning.
func NextSequenceNumber(stage model.Stage, weekRange string, weeks, cadence int) int {
	if stage == model.StageLoss {
		return 1
	}
	seq := cadence * (weeks - RangeStart(weekRange))
	if seq < 1 {
		return 1
	}
	return seq
}
