package validate

import (
	"time"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
)

// DateLayout is the YYYYMMDD layout used by every stored date field.
const DateLayout = "20060102"

// IsValidIdentifier checks the shape of a version-4 style identifier:
// 36 characters, '4' at offset 14 and one of a, b, 8, 9 at offset 19.
func IsValidIdentifier(v string) bool {
	if len(v) != 36 {
		return false
	}
	switch v[19] {
	case 'a', 'b', '8', '9':
	default:
		return false
	}
	return v[14] == '4'
}

// IsValidDate reports whether v is an 8-digit YYYYMMDD calendar date.
func IsValidDate(v string) bool {
	_, err := ParseDate(v)
	return err == nil
}

// ParseDate parses a YYYYMMDD date as midnight UTC.
func ParseDate(v string) (time.Time, error) {
	if len(v) != 8 {
		return time.Time{}, &time.ParseError{Layout: DateLayout, Value: v, Message: ": expected 8 digits"}
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return time.Time{}, &time.ParseError{Layout: DateLayout, Value: v, Message: ": expected 8 digits"}
		}
	}
	return time.ParseInLocation(DateLayout, v, time.UTC)
}

// Fields holds the enumerations the membership validators check against.
type Fields struct {
	languages    map[string]struct{}
	msgTypes     map[string]struct{}
	msgReceivers map[string]struct{}
	lossReasons  map[string]struct{}
}

// NewFields builds the enumeration validators from the configured rules.
func NewFields(r config.Rules) *Fields {
	return &Fields{
		languages:    toSet(r.Languages),
		msgTypes:     toSet(r.MsgTypes),
		msgReceivers: toSet(r.MsgReceivers),
		lossReasons:  toSet(r.LossReasons),
	}
}

func toSet(values []string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// IsValidLanguage reports whether v is a configured language code.
func (f *Fields) IsValidLanguage(v string) bool { return member(f.languages, v) }

// IsValidMsgType reports whether v is a configured message type.
func (f *Fields) IsValidMsgType(v string) bool { return member(f.msgTypes, v) }

// IsValidMsgReceiver reports whether v is a configured receiver role.
func (f *Fields) IsValidMsgReceiver(v string) bool { return member(f.msgReceivers, v) }

// IsValidLossReason reports whether v is a configured loss reason.
func (f *Fields) IsValidLossReason(v string) bool { return member(f.lossReasons, v) }

func member(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}
