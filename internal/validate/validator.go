// Package validate decides whether a registration carries everything needed
// to enroll it in a message stream.
//
// Validation is pure: it never writes to the registration. Callers apply the
// returned Outcome once the rest of the run has succeeded.
package validate

import (
	"time"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
	"github.com/praekeltfoundation/hellomama-registration/internal/messageset"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// Profile is the typed view of a registration that passed validation.
type Profile struct {
	RegType     string
	Stage       model.Stage
	MotherID    string
	ReceiverID  string
	OperatorID  string
	Language    string
	MsgType     string
	MsgReceiver string
	LossReason  string
	VoiceDays   string
	VoiceTimes  string
	// Weeks is the pregnancy week for prebirth, the baby's age for
	// postbirth and zero for loss.
	Weeks int
}

// HasHousehold reports whether a second stream goes to the receiver.
func (p Profile) HasHousehold() bool {
	return p.MsgReceiver != "" && p.MsgReceiver != ReceiverMotherOnly
}

// Outcome is the result of validating one registration.
type Outcome struct {
	Valid   bool
	Profile Profile
	// WeeksKey is the data key the computed weeks are recorded under, if any.
	WeeksKey string
	// Reason is set for terminal failures that stop checking early.
	Reason string
	// InvalidFields collects per-field failures.
	InvalidFields []string
}

// Apply records the outcome in data: reg_type and the computed weeks on
// success, invalid_fields otherwise.
func (o Outcome) Apply(data model.Data) {
	if o.Valid {
		data[model.KeyRegType] = o.Profile.RegType
		if o.WeeksKey != "" {
			data[o.WeeksKey] = o.Profile.Weeks
		}
		delete(data, model.KeyInvalidFields)
		return
	}
	if o.Reason != "" {
		data[model.KeyInvalidFields] = o.Reason
		return
	}
	data[model.KeyInvalidFields] = o.InvalidFields
}

// Validator runs the stage/authority rule matrix against registrations.
type Validator struct {
	fields *Fields
	table  *RuleTable
	bounds config.Rules
	now    func() time.Time
}

// New returns a Validator using cfg for enumerations and week bounds. now
// supplies the reference date for week arithmetic.
func New(cfg config.Rules, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		fields: NewFields(cfg),
		table:  NewRuleTable(DefaultRules),
		bounds: cfg,
		now:    now,
	}
}

// Validate checks reg and returns the outcome without modifying it.
func (v *Validator) Validate(reg *model.Registration) Outcome {
	data := reg.Data
	if data == nil {
		data = model.Data{}
	}

	if !IsValidIdentifier(reg.MotherID) {
		return Outcome{Reason: ReasonInvalidMotherID}
	}

	receiverID, _ := data.String(model.KeyReceiverID)
	if role, ok := data.String(model.KeyMsgReceiver); ok {
		switch {
		case IsSingleRecipient(role) && receiverID == reg.MotherID:
			return Outcome{Reason: ReasonMotherRequiresID}
		case role == ReceiverMotherOnly && receiverID != reg.MotherID:
			return Outcome{Reason: ReasonMotherIsReceiver}
		}
	}

	rule, ok := v.table.Match(reg.Stage, reg.Source.Authority, data)
	if !ok {
		return Outcome{Reason: ReasonInvalidCombination}
	}

	today := v.now()
	weeks := 0
	var invalid []string
	for _, field := range rule.Fields {
		value, isString := data.String(field)
		if !isString {
			invalid = append(invalid, field)
			continue
		}
		switch field {
		case model.KeyReceiverID, model.KeyOperatorID:
			if !IsValidIdentifier(value) {
				invalid = append(invalid, field)
			}
		case model.KeyLanguage:
			if !v.fields.IsValidLanguage(value) {
				invalid = append(invalid, field)
			}
		case model.KeyMsgType:
			if !v.fields.IsValidMsgType(value) {
				invalid = append(invalid, field)
				continue
			}
			if subtype, err := messageset.Subtype(value); err == nil && subtype == "audio" {
				invalid = append(invalid, missingVoiceCodes(data)...)
			}
		case model.KeyMsgReceiver:
			if !v.fields.IsValidMsgReceiver(value) {
				invalid = append(invalid, field)
			}
		case model.KeyLossReason:
			if !v.fields.IsValidLossReason(value) {
				invalid = append(invalid, field)
			}
		case model.KeyLastPeriodDate:
			lmp, err := ParseDate(value)
			if err != nil {
				invalid = append(invalid, field)
				continue
			}
			weeks = PregnancyWeeks(today, lmp)
			if weeks < v.bounds.PrebirthMinWeeks || weeks > v.bounds.PrebirthMaxWeeks {
				invalid = append(invalid, "last_period_date out of range")
			}
		case model.KeyBabyDOB:
			dob, err := ParseDate(value)
			if err != nil {
				invalid = append(invalid, field)
				continue
			}
			weeks = InfantAgeWeeks(today, dob)
			if weeks < v.bounds.PostbirthMinWeeks || weeks > v.bounds.PostbirthMaxWeeks {
				invalid = append(invalid, "baby_dob out of range")
			}
		}
	}
	if len(invalid) > 0 {
		return Outcome{InvalidFields: invalid}
	}

	p := Profile{
		RegType:    rule.RegType,
		Stage:      reg.Stage,
		MotherID:   reg.MotherID,
		ReceiverID: receiverID,
		Weeks:      weeks,
	}
	p.OperatorID, _ = data.String(model.KeyOperatorID)
	p.Language, _ = data.String(model.KeyLanguage)
	p.MsgType, _ = data.String(model.KeyMsgType)
	p.MsgReceiver, _ = data.String(model.KeyMsgReceiver)
	p.LossReason, _ = data.String(model.KeyLossReason)
	p.VoiceDays, _ = data.String(model.KeyVoiceDays)
	p.VoiceTimes, _ = data.String(model.KeyVoiceTimes)

	return Outcome{Valid: true, Profile: p, WeeksKey: rule.WeeksKey}
}

// missingVoiceCodes lists the voice schedule keys an audio registration
// lacks.
func missingVoiceCodes(data model.Data) []string {
	var missing []string
	for _, key := range []string{model.KeyVoiceDays, model.KeyVoiceTimes} {
		if v, ok := data.String(key); !ok || v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
