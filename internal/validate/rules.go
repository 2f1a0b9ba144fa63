package validate

import "github.com/praekeltfoundation/hellomama-registration/internal/model"

// Registration type tags written to data.reg_type.
const (
	RegTypePrebirth  = "hw_pre"
	RegTypePostbirth = "hw_post"
	RegTypeLoss      = "pbl_loss"
)

// Terminal failure reasons written to data.invalid_fields.
const (
	ReasonInvalidMotherID    = "Invalid UUID mother_id"
	ReasonMotherRequiresID   = "mother requires own id"
	ReasonMotherIsReceiver   = "mother_id should be the same as receiver_id"
	ReasonInvalidCombination = "Invalid combination of fields"
)

// Receiver roles with special identity constraints.
const (
	ReceiverMotherOnly = "mother_only"
	ReceiverFatherOnly = "father_only"
	ReceiverFriendOnly = "friend_only"
	ReceiverFamilyOnly = "family_only"
)

// IsSingleRecipient reports whether role routes every message to someone
// other than the mother.
func IsSingleRecipient(role string) bool {
	switch role {
	case ReceiverFatherOnly, ReceiverFriendOnly, ReceiverFamilyOnly:
		return true
	}
	return false
}

var generalFields = []string{
	model.KeyReceiverID,
	model.KeyOperatorID,
	model.KeyLanguage,
	model.KeyMsgType,
}

// Rule is one row of the stage/authority matrix.
type Rule struct {
	Stage       model.Stage
	Authorities []model.Authority
	// Fields lists every key that must be present in the registration data.
	Fields   []string
	RegType  string
	WeeksKey string
}

// DefaultRules is the built-in stage/authority matrix.
var DefaultRules = []Rule{
	{
		Stage:       model.StagePrebirth,
		Authorities: []model.Authority{model.AuthorityHWFull, model.AuthorityHWLimited},
		Fields:      withGeneral(model.KeyLastPeriodDate, model.KeyMsgReceiver),
		RegType:     RegTypePrebirth,
		WeeksKey:    model.KeyPregWeek,
	},
	{
		Stage:       model.StagePostbirth,
		Authorities: []model.Authority{model.AuthorityHWFull, model.AuthorityHWLimited},
		Fields:      withGeneral(model.KeyBabyDOB, model.KeyMsgReceiver),
		RegType:     RegTypePostbirth,
		WeeksKey:    model.KeyBabyAge,
	},
	{
		Stage:       model.StageLoss,
		Authorities: []model.Authority{model.AuthorityPatient, model.AuthorityAdvisor},
		Fields:      withGeneral(model.KeyLossReason),
		RegType:     RegTypeLoss,
	},
}

func withGeneral(extra ...string) []string {
	out := make([]string, 0, len(generalFields)+len(extra))
	out = append(out, generalFields...)
	return append(out, extra...)
}

type ruleKey struct {
	stage     model.Stage
	authority model.Authority
}

// RuleTable resolves a (stage, authority) pair to its rule.
type RuleTable struct {
	rules map[ruleKey]Rule
}

// NewRuleTable indexes rules by every (stage, authority) pair they allow.
func NewRuleTable(rules []Rule) *RuleTable {
	t := &RuleTable{rules: make(map[ruleKey]Rule)}
	for _, r := range rules {
		for _, a := range r.Authorities {
			t.rules[ruleKey{stage: r.Stage, authority: a}] = r
		}
	}
	return t
}

// Match returns the rule for the pair when every field it requires is
// present in data. Extra keys are ignored.
func (t *RuleTable) Match(stage model.Stage, authority model.Authority, data model.Data) (Rule, bool) {
	r, ok := t.rules[ruleKey{stage: stage, authority: authority}]
	if !ok {
		return Rule{}, false
	}
	for _, f := range r.Fields {
		if !data.Has(f) {
			return Rule{}, false
		}
	}
	return r, true
}
