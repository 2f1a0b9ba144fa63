package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

const serviceSBM = "stage_based_messaging"

// StageBasedMessaging is a client for the stage-based messaging service.
type StageBasedMessaging struct {
	base
}

// NewStageBasedMessaging returns a client for the service at baseURL.
func NewStageBasedMessaging(baseURL, token string, opts ...Option) *StageBasedMessaging {
	return &StageBasedMessaging{base: newBase(serviceSBM, baseURL, token, opts)}
}

type messageSetPage struct {
	Count   int                `json:"count"`
	Results []model.MessageSet `json:"results"`
}

type scheduleResponse struct {
	ID        int    `json:"id"`
	DayOfWeek string `json:"day_of_week"`
}

type subscriptionPage struct {
	Count int `json:"count"`
}

// LookupMessageSet resolves a short name to its message set.
func (c *StageBasedMessaging) LookupMessageSet(ctx context.Context, shortName string) (model.MessageSet, error) {
	var page messageSetPage
	q := url.Values{"short_name": {shortName}}
	if err := c.call(ctx, "lookup_messageset", "GET", "/messageset/", q, nil, &page); err != nil {
		return model.MessageSet{}, err
	}
	for _, ms := range page.Results {
		if ms.ShortName == shortName {
			return ms, nil
		}
	}
	return model.MessageSet{}, NewError(CategoryNotFound, c.service,
		fmt.Sprintf("no message set named %q", shortName), nil)
}

// LookupSchedule fetches a schedule and parses its weekday list.
func (c *StageBasedMessaging) LookupSchedule(ctx context.Context, id int) (model.Schedule, error) {
	var resp scheduleResponse
	path := "/schedule/" + strconv.Itoa(id) + "/"
	if err := c.call(ctx, "lookup_schedule", "GET", path, nil, nil, &resp); err != nil {
		return model.Schedule{}, err
	}
	days, err := ParseDaysOfWeek(resp.DayOfWeek)
	if err != nil {
		return model.Schedule{}, NewError(CategoryBadData, c.service,
			fmt.Sprintf("schedule %d day_of_week", id), err)
	}
	return model.Schedule{ID: resp.ID, DaysOfWeek: days}, nil
}

// HasSubscriptions reports whether the identity already has subscriptions.
func (c *StageBasedMessaging) HasSubscriptions(ctx context.Context, identity string) (bool, error) {
	var page subscriptionPage
	q := url.Values{"identity": {identity}}
	if err := c.call(ctx, "list_subscriptions", "GET", "/subscriptions/", q, nil, &page); err != nil {
		return false, err
	}
	return page.Count > 0, nil
}

// ParseDaysOfWeek parses a comma-separated cron-style weekday list such as
// "1,3,5". An asterisk means every day. Sunday is returned as 0.
func ParseDaysOfWeek(v string) ([]int, error) {
	v = strings.TrimSpace(v)
	if v == "*" {
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	}
	if v == "" {
		return nil, fmt.Errorf("empty weekday list")
	}
	parts := strings.Split(v, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d > 7 {
			return nil, fmt.Errorf("invalid weekday %q", p)
		}
		// cron allows 7 for Sunday
		days = append(days, d%7)
	}
	return days, nil
}
