// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the registration service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/client"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
	"github.com/praekeltfoundation/hellomama-registration/internal/repository"
	"github.com/praekeltfoundation/hellomama-registration/internal/service"
	"github.com/praekeltfoundation/hellomama-registration/internal/worker"
)

// Registrations is the registration storage the API reads and writes.
type Registrations interface {
	Create(ctx context.Context, reg *model.Registration) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	List(ctx context.Context, f repository.RegistrationFilter) ([]model.Registration, error)
}

// SubscriptionRequests lists the requests derived from a registration.
type SubscriptionRequests interface {
	ListByRegistration(ctx context.Context, registrationID string) ([]model.SubscriptionRequest, error)
}

// Validator runs validation synchronously.
type Validator interface {
	ValidateAndSubscribe(ctx context.Context, registrationID string) (service.Result, error)
}

// RegistrationHandler holds all HTTP handlers for the registration API.
type RegistrationHandler struct {
	regs     Registrations
	requests SubscriptionRequests
	svc      Validator
	queue    worker.Submitter
	validate *validator.Validate
	log      *zap.Logger
}

// NewRegistrationHandler constructs a RegistrationHandler. New registrations
// are handed to queue for background validation.
func NewRegistrationHandler(regs Registrations, requests SubscriptionRequests, svc Validator, queue worker.Submitter, log *zap.Logger) *RegistrationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationHandler{
		regs:     regs,
		requests: requests,
		svc:      svc,
		queue:    queue,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateRegistration handles POST /registrations
// Stores the registration unvalidated and queues it for validation.
func (h *RegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRegistrationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	reg := &model.Registration{
		MotherID: req.MotherID,
		Stage:    req.Stage,
		Source:   model.Source{Name: req.Source.Name, Authority: req.Source.Authority},
		Data:     req.Data,
	}
	if err := h.regs.Create(r.Context(), reg); err != nil {
		h.log.Error("create registration", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create registration")
		return
	}

	if h.queue != nil {
		if err := h.queue.Submit(r.Context(), reg.ID); err != nil {
			h.log.Warn("queue validation", zap.String("registration_id", reg.ID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, reg)
}

// ListRegistrations handles GET /registrations
// Accepts mother_id, stage, validated, source, created_after and
// created_before filters.
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	regs, err := h.regs.List(r.Context(), f)
	if err != nil {
		h.log.Error("list registrations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if regs == nil {
		regs = []model.Registration{}
	}

	writeJSON(w, http.StatusOK, regs)
}

func parseFilter(r *http.Request) (repository.RegistrationFilter, error) {
	q := r.URL.Query()
	f := repository.RegistrationFilter{
		MotherID: q.Get("mother_id"),
		Stage:    model.Stage(q.Get("stage")),
		Source:   q.Get("source"),
	}
	if f.Stage != "" && !f.Stage.Valid() {
		return f, fmt.Errorf("unknown stage %q", f.Stage)
	}
	if v := q.Get("validated"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("validated must be a boolean")
		}
		f.Validated = &b
	}
	for key, dst := range map[string]**time.Time{
		"created_after":  &f.CreatedAfter,
		"created_before": &f.CreatedBefore,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
		}
		*dst = &t
	}
	return f, nil
}

// GetRegistration handles GET /registrations/{id}
func (h *RegistrationHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reg, err := h.regs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "registration not found")
			return
		}
		h.log.Error("get registration", zap.String("registration_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get registration")
		return
	}

	writeJSON(w, http.StatusOK, reg)
}

// Validate handles POST /registrations/{id}/validate
// Runs validation synchronously and reports the outcome.
func (h *RegistrationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.svc.ValidateAndSubscribe(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			writeError(w, http.StatusNotFound, "registration not found")
		case client.Requeueable(err):
			writeError(w, http.StatusServiceUnavailable, "collaborating service unavailable, retry later")
		default:
			h.log.Error("validate registration", zap.String("registration_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "validation failed to complete")
		}
		return
	}

	writeJSON(w, http.StatusOK, model.ValidationResult{
		RegistrationID: id,
		Status:         res.Status,
		Message:        res.Message,
		Created:        res.Created,
	})
}

// ListSubscriptionRequests handles GET /registrations/{id}/subscriptionrequests
func (h *RegistrationHandler) ListSubscriptionRequests(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.regs.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "registration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get registration")
		return
	}

	reqs, err := h.requests.ListByRegistration(r.Context(), id)
	if err != nil {
		h.log.Error("list subscription requests", zap.String("registration_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list subscription requests")
		return
	}

	if reqs == nil {
		reqs = []model.SubscriptionRequest{}
	}

	writeJSON(w, http.StatusOK, reqs)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
