// Package messageset names the message streams a registration is enrolled
// in and resolves them to remote descriptors and starting positions.
package messageset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// Recipient is the party a stream is addressed to.
type Recipient string

const (
	RecipientMother    Recipient = "mother"
	RecipientHousehold Recipient = "household"
)

// Fixed voice pattern for household streams.
const (
	HouseholdVoiceDays  = "fri"
	HouseholdVoiceTimes = "9_11"
)

// Week range buckets.
const (
	RangePrebirth       = "10_42"
	RangePostbirthEarly = "0_12"
	RangePostbirthLate  = "13_52"
	RangeLoss           = "0_2"
)

var (
	// ErrWeeksOutOfRange is returned when no week bucket covers the weeks.
	ErrWeeksOutOfRange = errors.New("weeks outside every message set range")
	// ErrMissingVoiceSchedule is returned for audio streams without voice codes.
	ErrMissingVoiceSchedule = errors.New("audio stream requires voice_days and voice_times")
	// ErrUnknownMsgType is returned for message types with no stream subtype.
	ErrUnknownMsgType = errors.New("unknown message type")
	// ErrUnknownStage is returned for stages that have no message sets.
	ErrUnknownStage = errors.New("stage has no message sets")
)

// NameParams are the inputs to a stream short name.
type NameParams struct {
	Stage      model.Stage
	Recipient  Recipient
	MsgType    string
	Weeks      int
	VoiceDays  string
	VoiceTimes string
}

// Subtype maps a registration message type to a stream subtype.
func Subtype(msgType string) (string, error) {
	switch msgType {
	case "text", "sms":
		return "text", nil
	case "audio", "voice":
		return "audio", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMsgType, msgType)
}

// WeekRange returns the bucket a stage and week count fall in.
func WeekRange(stage model.Stage, weeks int) (string, error) {
	switch stage {
	case model.StagePrebirth:
		return RangePrebirth, nil
	case model.StagePostbirth:
		switch {
		case weeks >= 0 && weeks <= 12:
			return RangePostbirthEarly, nil
		case weeks >= 13 && weeks <= 52:
			return RangePostbirthLate, nil
		}
		return "", fmt.Errorf("%w: postbirth week %d", ErrWeeksOutOfRange, weeks)
	case model.StageLoss:
		return RangeLoss, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, stage)
}

// ShortName builds stage.recipient.subtype.week_range with a
// .voice_days.voice_times suffix for audio streams.
func ShortName(p NameParams) (string, error) {
	subtype := "audio"
	days, times := HouseholdVoiceDays, HouseholdVoiceTimes
	if p.Recipient != RecipientHousehold {
		var err error
		if subtype, err = Subtype(p.MsgType); err != nil {
			return "", err
		}
		days, times = p.VoiceDays, p.VoiceTimes
	}

	weekRange, err := WeekRange(p.Stage, p.Weeks)
	if err != nil {
		return "", err
	}

	parts := []string{string(p.Stage), string(p.Recipient), subtype, weekRange}
	if subtype == "audio" {
		if days == "" || times == "" {
			return "", fmt.Errorf("%w: %s stream", ErrMissingVoiceSchedule, p.Recipient)
		}
		parts = append(parts, days, times)
	}
	return strings.Join(parts, "."), nil
}

// ParseShortName splits a short name into its stage, recipient and week range.
func ParseShortName(name string) (stage model.Stage, recipient Recipient, weekRange string, err error) {
	parts := strings.Split(name, ".")
	if len(parts) != 4 && len(parts) != 6 {
		return "", "", "", fmt.Errorf("malformed short name %q", name)
	}
	return model.Stage(parts[0]), Recipient(parts[1]), parts[3], nil
}
