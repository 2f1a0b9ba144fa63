package messageset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		in   NameParams
		want string
	}{
		{
			name: "prebirth mother text",
			in:   NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "text", Weeks: 15},
			want: "prebirth.mother.text.10_42",
		},
		{
			name: "sms alias",
			in:   NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "sms", Weeks: 15},
			want: "prebirth.mother.text.10_42",
		},
		{
			name: "prebirth mother audio",
			in: NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "audio", Weeks: 15,
				VoiceDays: "tue_thu", VoiceTimes: "9_11"},
			want: "prebirth.mother.audio.10_42.tue_thu.9_11",
		},
		{
			name: "household ignores the mother's preferences",
			in: NameParams{Stage: model.StagePrebirth, Recipient: RecipientHousehold, MsgType: "audio", Weeks: 15,
				VoiceDays: "mon_wed", VoiceTimes: "2_5"},
			want: "prebirth.household.audio.10_42.fri.9_11",
		},
		{
			name: "household for a text mother",
			in:   NameParams{Stage: model.StagePrebirth, Recipient: RecipientHousehold, MsgType: "text", Weeks: 30},
			want: "prebirth.household.audio.10_42.fri.9_11",
		},
		{
			name: "postbirth early",
			in:   NameParams{Stage: model.StagePostbirth, Recipient: RecipientMother, MsgType: "text", Weeks: 12},
			want: "postbirth.mother.text.0_12",
		},
		{
			name: "postbirth late",
			in:   NameParams{Stage: model.StagePostbirth, Recipient: RecipientMother, MsgType: "text", Weeks: 13},
			want: "postbirth.mother.text.13_52",
		},
		{
			name: "loss",
			in:   NameParams{Stage: model.StageLoss, Recipient: RecipientMother, MsgType: "text"},
			want: "loss.mother.text.0_2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShortName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortNameErrors(t *testing.T) {
	_, err := ShortName(NameParams{Stage: model.StagePostbirth, Recipient: RecipientMother, MsgType: "text", Weeks: 53})
	assert.ErrorIs(t, err, ErrWeeksOutOfRange)

	_, err = ShortName(NameParams{Stage: model.StagePostbirth, Recipient: RecipientMother, MsgType: "text", Weeks: -1})
	assert.ErrorIs(t, err, ErrWeeksOutOfRange)

	_, err = ShortName(NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "audio", Weeks: 15})
	assert.ErrorIs(t, err, ErrMissingVoiceSchedule)

	_, err = ShortName(NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "email", Weeks: 15})
	assert.ErrorIs(t, err, ErrUnknownMsgType)

	_, err = ShortName(NameParams{Stage: model.StagePublic, Recipient: RecipientMother, MsgType: "text"})
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestParseShortName(t *testing.T) {
	stage, recipient, weekRange, err := ParseShortName("prebirth.household.audio.10_42.fri.9_11")
	require.NoError(t, err)
	assert.Equal(t, model.StagePrebirth, stage)
	assert.Equal(t, RecipientHousehold, recipient)
	assert.Equal(t, "10_42", weekRange)

	_, _, _, err = ParseShortName("prebirth_mother_text_10_42")
	assert.Error(t, err)
}
