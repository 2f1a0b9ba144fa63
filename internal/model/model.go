// Package model defines the core domain types for the registration service.
package model

import "time"

// Stage is the health-journey phase a registration belongs to.
type Stage string

const (
	StagePrebirth  Stage = "prebirth"
	StagePostbirth Stage = "postbirth"
	StageLoss      Stage = "loss"
	StagePublic    Stage = "public"
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StagePrebirth, StagePostbirth, StageLoss, StagePublic:
		return true
	}
	return false
}

// Authority is the trust level of the channel that submitted a registration.
type Authority string

const (
	AuthorityHWFull    Authority = "hw_full"
	AuthorityHWLimited Authority = "hw_limited"
	AuthorityPatient   Authority = "patient"
	AuthorityAdvisor   Authority = "advisor"
)

// Source identifies the channel a registration came from.
type Source struct {
	Name      string    `json:"name"`
	Authority Authority `json:"authority"`
}

// Well-known keys inside Registration.Data.
const (
	KeyReceiverID     = "receiver_id"
	KeyOperatorID     = "operator_id"
	KeyLanguage       = "language"
	KeyMsgType        = "msg_type"
	KeyMsgReceiver    = "msg_receiver"
	KeyLastPeriodDate = "last_period_date"
	KeyBabyDOB        = "baby_dob"
	KeyLossReason     = "loss_reason"
	KeyVoiceDays      = "voice_days"
	KeyVoiceTimes     = "voice_times"
	KeyRegType        = "reg_type"
	KeyPregWeek       = "preg_week"
	KeyBabyAge        = "baby_age"
	KeyInvalidFields  = "invalid_fields"
)

// Data is the open key/value payload of a registration.
type Data map[string]any

// String returns the value stored under key when it is a string.
func (d Data) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether key is present, whatever its value.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Clone returns a shallow copy of d.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Registration is an intake record describing who should be enrolled in a
// message stream and under which health stage.
type Registration struct {
	ID        string    `json:"id"`
	MotherID  string    `json:"mother_id"`
	Stage     Stage     `json:"stage"`
	Source    Source    `json:"source"`
	Data      Data      `json:"data"`
	Validated bool      `json:"validated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionRequest tells the stage-based messaging service to enroll one
// identity into one message set at a starting sequence number.
type SubscriptionRequest struct {
	ID                 string         `json:"id"`
	RegistrationID     string         `json:"registration_id"`
	Identity           string         `json:"identity"`
	MessageSet         int            `json:"messageset"`
	NextSequenceNumber int            `json:"next_sequence_number"`
	Lang               string         `json:"lang"`
	Schedule           int            `json:"schedule"`
	Metadata           map[string]any `json:"metadata"`
	CreatedAt          time.Time      `json:"created_at"`
}

// MetadataPrependNextDelivery is the metadata key carrying a one-off audio
// asset delivered before the first scheduled message.
const MetadataPrependNextDelivery = "prepend_next_delivery"

// MessageSet describes a remote message stream.
type MessageSet struct {
	ID              int    `json:"id"`
	ShortName       string `json:"short_name"`
	DefaultSchedule int    `json:"default_schedule"`
}

// Schedule describes which weekdays a stream delivers on.
type Schedule struct {
	ID         int   `json:"id"`
	DaysOfWeek []int `json:"days_of_week"`
}

// Cadence returns the number of distinct weekdays the schedule fires on.
// Sunday may appear as 0 or 7.
func (s Schedule) Cadence() int {
	seen := make(map[int]struct{}, len(s.DaysOfWeek))
	for _, d := range s.DaysOfWeek {
		seen[d%7] = struct{}{}
	}
	return len(seen)
}

// CreateRegistrationRequest is the payload for creating a registration.
type CreateRegistrationRequest struct {
	MotherID string `json:"mother_id" validate:"required"`
	Stage    Stage  `json:"stage" validate:"required,oneof=prebirth postbirth loss public"`
	Source   struct {
		Name      string    `json:"name" validate:"required"`
		Authority Authority `json:"authority" validate:"required,oneof=hw_full hw_limited patient advisor"`
	} `json:"source" validate:"required"`
	Data Data `json:"data" validate:"required"`
	// Validated is accepted for compatibility and ignored.
	Validated bool `json:"validated"`
}

// ValidationResult is the reported outcome of one validation run.
type ValidationResult struct {
	RegistrationID string `json:"registration_id"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	Created        int    `json:"created"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
