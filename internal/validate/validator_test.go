package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

const (
	motherID   = "mother00-9d89-4aa6-99ff-13c225365b5d"
	friendID   = "friend00-73a2-4d89-b045-d52004c025fe"
	operatorID = "nurse000-6a07-4377-a4f6-c0485ccba234"
	otherID    = "3f1e2d4c-5b6a-4789-a012-3456789abcde"
)

func hwSource() model.Source {
	return model.Source{Name: "clinic", Authority: model.AuthorityHWFull}
}

func prebirthFriend() model.Data {
	return model.Data{
		"receiver_id":      friendID,
		"operator_id":      operatorID,
		"language":         "eng_NG",
		"msg_type":         "text",
		"gravida":          "1",
		"last_period_date": "20150202",
		"msg_receiver":     "friend_only",
	}
}

func prebirthMother() model.Data {
	d := prebirthFriend()
	d["receiver_id"] = motherID
	d["msg_receiver"] = "mother_only"
	return d
}

type ValidatorSuite struct {
	suite.Suite
	v *Validator
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	today := time.Date(2015, 8, 17, 0, 0, 0, 0, time.UTC)
	s.v = New(config.DefaultRules(), func() time.Time { return today })
}

func (s *ValidatorSuite) reg(stage model.Stage, source model.Source, data model.Data) *model.Registration {
	return &model.Registration{ID: "reg-1", MotherID: motherID, Stage: stage, Source: source, Data: data}
}

func (s *ValidatorSuite) TestPrebirth() {
	s.Run("valid friend registration", func() {
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), prebirthFriend()))
		s.Require().True(out.Valid)
		s.Equal(RegTypePrebirth, out.Profile.RegType)
		s.Equal(28, out.Profile.Weeks)
		s.Equal(model.KeyPregWeek, out.WeeksKey)
		s.Equal(friendID, out.Profile.ReceiverID)
		s.True(out.Profile.HasHousehold())
	})

	s.Run("hw_limited authority is accepted", func() {
		src := model.Source{Name: "chw", Authority: model.AuthorityHWLimited}
		out := s.v.Validate(s.reg(model.StagePrebirth, src, prebirthFriend()))
		s.True(out.Valid)
	})

	s.Run("nine weeks fails the lower bound", func() {
		d := prebirthFriend()
		d["last_period_date"] = "20150612"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.False(out.Valid)
		s.Equal([]string{"last_period_date out of range"}, out.InvalidFields)
	})

	s.Run("ten weeks passes the lower bound", func() {
		d := prebirthFriend()
		d["last_period_date"] = "20150605"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.True(out.Valid)
		s.Equal(10, out.Profile.Weeks)
	})

	s.Run("pregnancy too long", func() {
		d := prebirthFriend()
		d["last_period_date"] = "20130101"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.False(out.Valid)
		s.Equal([]string{"last_period_date out of range"}, out.InvalidFields)
	})

	s.Run("bad fields are all collected", func() {
		d := prebirthFriend()
		d["receiver_id"] = otherID
		d["last_period_date"] = "2015020"
		d["msg_receiver"] = "trusted friend"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.False(out.Valid)
		s.ElementsMatch([]string{"msg_receiver", "last_period_date"}, out.InvalidFields)
	})

	s.Run("audio requires voice codes", func() {
		d := prebirthMother()
		d["msg_type"] = "audio"
		d["voice_times"] = "9_11"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.False(out.Valid)
		s.Equal([]string{"voice_days"}, out.InvalidFields)

		d["voice_days"] = "tue_thu"
		out = s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.True(out.Valid)
		s.Equal("tue_thu", out.Profile.VoiceDays)
	})

	s.Run("non-string value fails its field", func() {
		d := prebirthFriend()
		d["last_period_date"] = 20150202
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.False(out.Valid)
		s.Equal([]string{"last_period_date"}, out.InvalidFields)
	})
}

func (s *ValidatorSuite) TestPostbirth() {
	data := func(dob string) model.Data {
		return model.Data{
			"receiver_id":  otherID,
			"operator_id":  operatorID,
			"language":     "eng_NG",
			"msg_type":     "text",
			"baby_dob":     dob,
			"msg_receiver": "friend_only",
		}
	}

	s.Run("valid", func() {
		out := s.v.Validate(s.reg(model.StagePostbirth, hwSource(), data("20150202")))
		s.Require().True(out.Valid)
		s.Equal(RegTypePostbirth, out.Profile.RegType)
		s.Equal(model.KeyBabyAge, out.WeeksKey)
		s.Equal(28, out.Profile.Weeks)
	})

	s.Run("baby born in the future", func() {
		out := s.v.Validate(s.reg(model.StagePostbirth, hwSource(), data("20150818")))
		s.False(out.Valid)
		s.Equal([]string{"baby_dob out of range"}, out.InvalidFields)
	})

	s.Run("baby too old", func() {
		out := s.v.Validate(s.reg(model.StagePostbirth, hwSource(), data("20130717")))
		s.False(out.Valid)
		s.Equal([]string{"baby_dob out of range"}, out.InvalidFields)
	})
}

func (s *ValidatorSuite) TestLoss() {
	data := model.Data{
		"receiver_id": otherID,
		"operator_id": operatorID,
		"language":    "eng_NG",
		"msg_type":    "text",
		"loss_reason": "miscarriage",
	}

	s.Run("patient authority", func() {
		src := model.Source{Name: "ussd", Authority: model.AuthorityPatient}
		out := s.v.Validate(s.reg(model.StageLoss, src, data))
		s.Require().True(out.Valid)
		s.Equal(RegTypeLoss, out.Profile.RegType)
		s.Empty(out.WeeksKey)
		s.Zero(out.Profile.Weeks)
		s.False(out.Profile.HasHousehold())
	})

	s.Run("health worker cannot register a loss", func() {
		out := s.v.Validate(s.reg(model.StageLoss, hwSource(), data))
		s.False(out.Valid)
		s.Equal(ReasonInvalidCombination, out.Reason)
	})
}

func (s *ValidatorSuite) TestTerminalReasons() {
	s.Run("malformed mother id", func() {
		reg := s.reg(model.StagePrebirth, hwSource(), prebirthMother())
		reg.MotherID = "mother00-9d89-4aa6-99ff-13c225365b5"
		out := s.v.Validate(reg)
		s.Equal(ReasonInvalidMotherID, out.Reason)
	})

	s.Run("single recipient with the mother's id", func() {
		d := prebirthFriend()
		d["receiver_id"] = motherID
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.Equal(ReasonMotherRequiresID, out.Reason)
	})

	s.Run("mother only with another receiver", func() {
		d := prebirthMother()
		d["receiver_id"] = otherID
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.Equal(ReasonMotherIsReceiver, out.Reason)
	})

	s.Run("mother only without a receiver id", func() {
		d := prebirthMother()
		delete(d, "receiver_id")
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.Equal(ReasonMotherIsReceiver, out.Reason)
	})

	s.Run("missing required field", func() {
		d := prebirthFriend()
		delete(d, "msg_receiver")
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		s.Equal(ReasonInvalidCombination, out.Reason)
	})

	s.Run("public stage has no rule", func() {
		out := s.v.Validate(s.reg(model.StagePublic, hwSource(), prebirthFriend()))
		s.Equal(ReasonInvalidCombination, out.Reason)
	})

	s.Run("nil data", func() {
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), nil))
		s.Equal(ReasonInvalidCombination, out.Reason)
	})
}

func (s *ValidatorSuite) TestValidateDoesNotMutate() {
	d := prebirthFriend()
	_ = s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
	s.NotContains(d, model.KeyRegType)
	s.NotContains(d, model.KeyPregWeek)
	s.NotContains(d, model.KeyInvalidFields)
}

func (s *ValidatorSuite) TestApply() {
	s.Run("success writes reg type and weeks", func() {
		d := prebirthFriend()
		d[model.KeyInvalidFields] = "stale"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		out.Apply(d)
		s.Equal("hw_pre", d[model.KeyRegType])
		s.Equal(28, d[model.KeyPregWeek])
		s.NotContains(d, model.KeyInvalidFields)
	})

	s.Run("terminal reason is written as a string", func() {
		d := prebirthFriend()
		delete(d, "language")
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		out.Apply(d)
		s.Equal(ReasonInvalidCombination, d[model.KeyInvalidFields])
	})

	s.Run("field failures are written as a list", func() {
		d := prebirthFriend()
		d["language"] = "klingon"
		out := s.v.Validate(s.reg(model.StagePrebirth, hwSource(), d))
		out.Apply(d)
		s.Equal([]string{"language"}, d[model.KeyInvalidFields])
	})
}

func (s *ValidatorSuite) TestConfiguredBounds() {
	rules := config.DefaultRules()
	rules.PrebirthMinWeeks = 30
	today := time.Date(2015, 8, 17, 0, 0, 0, 0, time.UTC)
	v := New(rules, func() time.Time { return today })

	out := v.Validate(s.reg(model.StagePrebirth, hwSource(), prebirthFriend()))
	s.False(out.Valid)
	s.Equal([]string{"last_period_date out of range"}, out.InvalidFields)
}
