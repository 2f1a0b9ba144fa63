// Package service implements the registration validation run: it validates
// a registration, derives its subscription requests, performs the welcome
// side effects and records the outcome.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/praekeltfoundation/hellomama-registration/internal/messageset"
	"github.com/praekeltfoundation/hellomama-registration/internal/metrics"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
	"github.com/praekeltfoundation/hellomama-registration/internal/repository"
	"github.com/praekeltfoundation/hellomama-registration/internal/validate"
)

// Reported statuses of a validation run.
const (
	StatusSuccess = "Validation completed - Success"
	StatusFailure = "Validation completed - Failure"
)

// ErrRegistrationNotFound is returned when the registration does not exist.
var ErrRegistrationNotFound = errors.New("registration not found")

// Result is the outcome of ValidateAndSubscribe.
type Result struct {
	Status string
	// Message counts the subscription requests the run derived.
	Message string
	// Created counts the requests this run wrote; retries of a partly
	// completed run skip requests that already exist.
	Created int
}

// Deps are the collaborators of a RegistrationService.
type Deps struct {
	Registrations RegistrationStore
	Requests      SubscriptionRequestSink
	MessageSets   MessageSetLookup
	Addresses     AddressResolver
	Sender        MessageSender
	Validator     *validate.Validator
	Welcome       Welcome
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// RegistrationService runs registration validation and subscription.
type RegistrationService struct {
	regs      RegistrationStore
	requests  SubscriptionRequestSink
	lookup    MessageSetLookup
	addresses AddressResolver
	sender    MessageSender
	validator *validate.Validator
	welcome   Welcome
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(d Deps) (*RegistrationService, error) {
	switch {
	case d.Registrations == nil:
		return nil, errors.New("registration store is required")
	case d.Requests == nil:
		return nil, errors.New("subscription request sink is required")
	case d.MessageSets == nil:
		return nil, errors.New("message set lookup is required")
	case d.Addresses == nil:
		return nil, errors.New("address resolver is required")
	case d.Sender == nil:
		return nil, errors.New("message sender is required")
	case d.Validator == nil:
		return nil, errors.New("validator is required")
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		regs:      d.Registrations,
		requests:  d.Requests,
		lookup:    d.MessageSets,
		addresses: d.Addresses,
		sender:    d.Sender,
		validator: d.Validator,
		welcome:   d.Welcome,
		log:       log,
		metrics:   d.Metrics,
	}, nil
}

// Plan is the pure part of a run: the validation outcome and, when valid,
// the subscription requests it would create.
type Plan struct {
	Outcome  validate.Outcome
	Streams  []messageset.Stream
	Requests []model.SubscriptionRequest
	// SendWelcomeText is set when the mother's stream has no voice schedule
	// and a welcome text goes to WelcomeTo instead.
	SendWelcomeText bool
	WelcomeTo       string
}

// Plan validates reg and derives its streams without writing anything or
// sending messages. Descriptor lookups still reach the messaging service.
func (s *RegistrationService) Plan(ctx context.Context, reg *model.Registration) (Plan, error) {
	return s.plan(ctx, reg, messageset.Memoize(s.lookup))
}

func (s *RegistrationService) plan(ctx context.Context, reg *model.Registration, lookup messageset.Lookup) (Plan, error) {
	out := s.validator.Validate(reg)
	p := Plan{Outcome: out}
	if !out.Valid {
		return p, nil
	}
	profile := out.Profile
	resolver := messageset.NewResolver(lookup)

	var mother, household messageset.Stream
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mother, err = resolver.Resolve(gctx, messageset.NameParams{
			Stage:      profile.Stage,
			Recipient:  messageset.RecipientMother,
			MsgType:    profile.MsgType,
			Weeks:      profile.Weeks,
			VoiceDays:  profile.VoiceDays,
			VoiceTimes: profile.VoiceTimes,
		})
		return err
	})
	if profile.HasHousehold() {
		g.Go(func() error {
			var err error
			household, err = resolver.Resolve(gctx, messageset.NameParams{
				Stage:     profile.Stage,
				Recipient: messageset.RecipientHousehold,
				MsgType:   profile.MsgType,
				Weeks:     profile.Weeks,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if fields := dataShapeFields(err, profile.Stage); len(fields) > 0 {
			p.Outcome = validate.Outcome{InvalidFields: fields}
			return p, nil
		}
		return Plan{}, fmt.Errorf("derive streams: %w", err)
	}

	motherReq := s.request(reg.ID, profile.MotherID, profile.Language, mother)
	if profile.VoiceDays != "" {
		motherReq.Metadata[model.MetadataPrependNextDelivery] =
			s.welcome.AudioURL(profile.Language, messageset.RecipientMother)
	} else {
		p.SendWelcomeText = true
		p.WelcomeTo = profile.MotherID
		if validate.IsSingleRecipient(profile.MsgReceiver) {
			p.WelcomeTo = profile.ReceiverID
		}
	}
	p.Streams = append(p.Streams, mother)
	p.Requests = append(p.Requests, motherReq)

	if profile.HasHousehold() {
		householdReq := s.request(reg.ID, profile.ReceiverID, profile.Language, household)
		householdReq.Metadata[model.MetadataPrependNextDelivery] =
			s.welcome.AudioURL(profile.Language, messageset.RecipientHousehold)
		p.Streams = append(p.Streams, household)
		p.Requests = append(p.Requests, householdReq)
	}
	return p, nil
}

// dataShapeFields maps a stream naming error caused by the registration's
// own data to the invalid_fields entries it is recorded as.
func dataShapeFields(err error, stage model.Stage) []string {
	switch {
	case errors.Is(err, messageset.ErrMissingVoiceSchedule):
		return []string{model.KeyVoiceDays, model.KeyVoiceTimes}
	case errors.Is(err, messageset.ErrUnknownMsgType):
		return []string{model.KeyMsgType}
	case errors.Is(err, messageset.ErrWeeksOutOfRange):
		if stage == model.StagePostbirth {
			return []string{"baby_dob out of range"}
		}
		return []string{"last_period_date out of range"}
	}
	return nil
}

func (s *RegistrationService) request(registrationID, identity, lang string, st messageset.Stream) model.SubscriptionRequest {
	return model.SubscriptionRequest{
		RegistrationID:     registrationID,
		Identity:           identity,
		MessageSet:         st.MessageSet.ID,
		NextSequenceNumber: st.NextSequenceNumber,
		Lang:               lang,
		Schedule:           st.Schedule.ID,
		Metadata:           map[string]any{},
	}
}

// ValidateAndSubscribe runs validation for one registration. Validation
// failures are recorded on the registration and reported through the
// Failure status; only infrastructure errors are returned. A registration is
// marked validated only after all of its subscription requests exist, and a
// validated registration is never processed again.
func (s *RegistrationService) ValidateAndSubscribe(ctx context.Context, registrationID string) (Result, error) {
	log := s.log.With(zap.String("registration_id", registrationID))

	reg, err := s.regs.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrRegistrationNotFound
		}
		return Result{}, fmt.Errorf("load registration: %w", err)
	}
	if reg.Validated {
		log.Info("registration already validated")
		return Result{Status: StatusSuccess, Message: createdMessage(0)}, nil
	}

	p, err := s.plan(ctx, reg, messageset.Memoize(s.lookup))
	if err != nil {
		s.metrics.IncValidation("error")
		return Result{}, err
	}

	if !p.Outcome.Valid {
		p.Outcome.Apply(reg.Data)
		if err := s.regs.Save(ctx, reg); err != nil {
			if errors.Is(err, repository.ErrAlreadyValidated) {
				return Result{Status: StatusSuccess, Message: createdMessage(0)}, nil
			}
			return Result{}, fmt.Errorf("save registration: %w", err)
		}
		s.metrics.IncValidation("failure")
		log.Info("registration failed validation", zap.Any("invalid_fields", reg.Data[model.KeyInvalidFields]))
		return Result{Status: StatusFailure}, nil
	}

	if p.SendWelcomeText {
		if err := s.sendWelcome(ctx, reg, p.WelcomeTo); err != nil {
			s.metrics.IncValidation("error")
			return Result{}, err
		}
	}

	created := 0
	for i := range p.Requests {
		req := p.Requests[i]
		ok, err := s.requests.Create(ctx, &req)
		if err != nil {
			s.metrics.IncValidation("error")
			return Result{}, fmt.Errorf("create subscription request for %s: %w", p.Streams[i].ShortName, err)
		}
		if ok {
			created++
			s.metrics.IncSubscriptionRequest(string(p.Streams[i].Recipient))
		}
		log.Debug("subscription request written",
			zap.String("short_name", p.Streams[i].ShortName),
			zap.Int("next_sequence_number", req.NextSequenceNumber),
			zap.Bool("created", ok))
	}

	p.Outcome.Apply(reg.Data)
	reg.Validated = true
	if err := s.regs.Save(ctx, reg); err != nil && !errors.Is(err, repository.ErrAlreadyValidated) {
		s.metrics.IncValidation("error")
		return Result{}, fmt.Errorf("save registration: %w", err)
	}

	s.metrics.IncValidation("success")
	res := Result{Status: StatusSuccess, Message: createdMessage(len(p.Requests)), Created: created}
	log.Info("registration validated",
		zap.String("status", res.Status),
		zap.String("reg_type", p.Outcome.Profile.RegType),
		zap.Int("created", created))
	return res, nil
}

func (s *RegistrationService) sendWelcome(ctx context.Context, reg *model.Registration, identity string) error {
	addr, err := s.addresses.LookupDefaultAddress(ctx, identity)
	if err != nil {
		return fmt.Errorf("lookup address of %s: %w", identity, err)
	}
	meta := map[string]any{"registration_id": reg.ID}
	if err := s.sender.SendMessage(ctx, addr, s.welcome.Text(reg.Stage), meta); err != nil {
		return fmt.Errorf("send welcome message: %w", err)
	}
	return nil
}

func createdMessage(n int) string {
	if n == 1 {
		return "1 SubscriptionRequest created"
	}
	return fmt.Sprintf("%d SubscriptionRequests created", n)
}
