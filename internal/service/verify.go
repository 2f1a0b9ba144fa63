package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/messageset"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
	"github.com/praekeltfoundation/hellomama-registration/internal/repository"
	"github.com/praekeltfoundation/hellomama-registration/internal/validate"
)

var (
	// ErrSubscriptionsExist is returned when the messaging service already
	// holds subscriptions for the mother, so pending requests are stale.
	ErrSubscriptionsExist = errors.New("subscriptions already exist for mother")
	// ErrNoSubscriptionRequests is returned when a registration has no
	// pending subscription requests to check.
	ErrNoSubscriptionRequests = errors.New("registration has no subscription requests")
	// ErrNoHouseholdStream is returned when the household recipient is
	// checked on a registration whose messages only go to the mother.
	ErrNoHouseholdStream = errors.New("registration has no household stream")
)

// VerifyOptions control a schedule verification.
type VerifyOptions struct {
	Recipient messageset.Recipient
	// Today is the reference date. Zero means now.
	Today time.Time
	// Fix rewrites mismatched sequence numbers.
	Fix bool
}

// Mismatch is one subscription request whose starting position drifted.
type Mismatch struct {
	RequestID string `json:"request_id"`
	Current   int    `json:"current"`
	Expected  int    `json:"expected"`
	Fixed     bool   `json:"fixed"`
}

// VerifyReport summarises a schedule verification.
type VerifyReport struct {
	RegistrationID string     `json:"registration_id"`
	ShortName      string     `json:"short_name"`
	Weeks          int        `json:"weeks"`
	Expected       int        `json:"expected"`
	Checked        int        `json:"checked"`
	Mismatches     []Mismatch `json:"mismatches"`
}

// ScheduleVerifier recomputes the starting position of pending subscription
// requests for registrations whose subscriptions were delayed.
type ScheduleVerifier struct {
	regs     RegistrationStore
	requests SubscriptionRequestStore
	lookup   MessageSetLookup
	subs     SubscriptionChecker
	log      *zap.Logger
}

// NewScheduleVerifier constructs a ScheduleVerifier.
func NewScheduleVerifier(regs RegistrationStore, requests SubscriptionRequestStore, lookup MessageSetLookup, subs SubscriptionChecker, log *zap.Logger) *ScheduleVerifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScheduleVerifier{regs: regs, requests: requests, lookup: lookup, subs: subs, log: log}
}

// Verify checks the registration's requests for one recipient against the
// sequence number the stream would start at on opts.Today.
func (v *ScheduleVerifier) Verify(ctx context.Context, registrationID string, opts VerifyOptions) (VerifyReport, error) {
	if opts.Recipient != messageset.RecipientMother && opts.Recipient != messageset.RecipientHousehold {
		return VerifyReport{}, fmt.Errorf("unknown recipient %q", opts.Recipient)
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}

	reg, err := v.regs.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return VerifyReport{}, ErrRegistrationNotFound
		}
		return VerifyReport{}, fmt.Errorf("load registration: %w", err)
	}

	if opts.Recipient == messageset.RecipientHousehold {
		role, _ := reg.Data.String(model.KeyMsgReceiver)
		if !(validate.Profile{MsgReceiver: role}).HasHousehold() {
			return VerifyReport{}, ErrNoHouseholdStream
		}
	}

	has, err := v.subs.HasSubscriptions(ctx, reg.MotherID)
	if err != nil {
		return VerifyReport{}, fmt.Errorf("check subscriptions: %w", err)
	}
	if has {
		return VerifyReport{}, ErrSubscriptionsExist
	}

	pending, err := v.requests.ListByRegistration(ctx, reg.ID)
	if err != nil {
		return VerifyReport{}, fmt.Errorf("list subscription requests: %w", err)
	}
	if len(pending) == 0 {
		return VerifyReport{}, ErrNoSubscriptionRequests
	}

	weeks, err := validate.CurrentWeeks(reg.Stage, reg.Data, today)
	if err != nil {
		return VerifyReport{}, err
	}

	identity := reg.MotherID
	params := messageset.NameParams{
		Stage:     reg.Stage,
		Recipient: opts.Recipient,
		Weeks:     weeks,
	}
	params.MsgType, _ = reg.Data.String(model.KeyMsgType)
	if opts.Recipient == messageset.RecipientHousehold {
		identity, _ = reg.Data.String(model.KeyReceiverID)
	} else {
		params.VoiceDays, _ = reg.Data.String(model.KeyVoiceDays)
		params.VoiceTimes, _ = reg.Data.String(model.KeyVoiceTimes)
	}

	stream, err := messageset.NewResolver(v.lookup).Resolve(ctx, params)
	if err != nil {
		return VerifyReport{}, fmt.Errorf("resolve stream: %w", err)
	}

	report := VerifyReport{
		RegistrationID: reg.ID,
		ShortName:      stream.ShortName,
		Weeks:          weeks,
		Expected:       stream.NextSequenceNumber,
	}
	for _, req := range pending {
		if req.Identity != identity || req.MessageSet != stream.MessageSet.ID {
			continue
		}
		report.Checked++
		if req.NextSequenceNumber == stream.NextSequenceNumber {
			continue
		}
		m := Mismatch{RequestID: req.ID, Current: req.NextSequenceNumber, Expected: stream.NextSequenceNumber}
		if opts.Fix {
			if err := v.requests.UpdateNextSequenceNumber(ctx, req.ID, stream.NextSequenceNumber); err != nil {
				return report, fmt.Errorf("fix subscription request %s: %w", req.ID, err)
			}
			m.Fixed = true
		}
		report.Mismatches = append(report.Mismatches, m)
	}

	v.log.Info("schedule verified",
		zap.String("registration_id", reg.ID),
		zap.String("short_name", stream.ShortName),
		zap.Int("checked", report.Checked),
		zap.Int("mismatches", len(report.Mismatches)),
		zap.Bool("fix", opts.Fix))
	return report, nil
}
