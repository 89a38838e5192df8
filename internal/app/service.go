package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hylla/tidrapport/internal/allocate"
	"github.com/hylla/tidrapport/internal/domain"
)

// IDGenerator returns unique identifiers for new sessions.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// EntityKind selects which aggregate view an edit targets.
type EntityKind string

const (
	EntityProject EntityKind = "project"
	EntityPerson  EntityKind = "person"
)

// EditInput holds one user override of an aggregate total.
type EditInput struct {
	Entity EntityKind
	ID     string
	Hours  float64
}

// Session is one fetch-and-calculate run plus any edits applied to it. The
// summary set inside is the mutable state the review surface works on.
type Session struct {
	ID        string
	FetchedAt time.Time
	Records   []domain.ActivityRecord
	Summary   *domain.SummarySet
}

// Clone deep-copies the session so callers can hand it out without sharing
// the mutable summary.
func (s Session) Clone() Session {
	out := s
	out.Records = append([]domain.ActivityRecord(nil), s.Records...)
	if s.Summary != nil {
		out.Summary = s.Summary.Clone()
	}
	return out
}

// ProjectForecast is one project's projected hours in a future month.
type ProjectForecast struct {
	ProjectID   string
	ProjectName string
	Hours       float64
}

// ForecastMonth is the projected workload for one month past the report
// month, computed with an as-of date before the month so everything counts
// as remaining.
type ForecastMonth struct {
	Month    domain.Month
	Total    float64
	Projects []ProjectForecast
}

// Service owns the session lifecycle: fetch, calculate, persist, edit,
// forecast. Not safe for concurrent use; the calculation itself performs no
// blocking I/O.
type Service struct {
	fetcher Fetcher
	repo    Repository
	rules   allocate.Rules
	idGen   IDGenerator
	clock   Clock

	current *Session
}

// NewService constructs the application service.
func NewService(fetcher Fetcher, repo Repository, rules allocate.Rules, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if !rules.Valid() {
		rules = allocate.DefaultRules()
	}
	return &Service{
		fetcher: fetcher,
		repo:    repo,
		rules:   rules,
		idGen:   idGen,
		clock:   clock,
	}
}

// Rules returns the calculation knobs the service was configured with.
func (s *Service) Rules() allocate.Rules {
	return s.rules
}

// Current returns the active session, if any.
func (s *Service) Current() (Session, bool) {
	if s.current == nil {
		return Session{}, false
	}
	return s.current.Clone(), true
}

// Refresh fetches fresh records and recalculates the month. On fetch failure
// the prior session survives untouched and the error wraps ErrFetchFailed.
// On success any previously edited state is discarded wholesale.
func (s *Service) Refresh(ctx context.Context, month domain.Month, asOf time.Time) (Session, error) {
	records, err := s.fetcher.FetchActivities(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	session := Session{
		ID:        s.idGen(),
		FetchedAt: s.clock().UTC(),
		Records:   records,
		Summary:   allocate.Calculate(records, month, asOf, s.rules),
	}
	if err := s.persist(ctx, session); err != nil {
		return Session{}, err
	}
	s.current = &session
	return session.Clone(), nil
}

// Load restores the persisted session, making it current.
func (s *Service) Load(ctx context.Context) (Session, error) {
	if s.repo == nil {
		return Session{}, ErrNoData
	}
	session, err := s.repo.LoadLatestSession(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNoData
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	s.current = &session
	return session.Clone(), nil
}

// Recalculate reruns the calculator over the current records with a new
// as-of date, dropping any edits.
func (s *Service) Recalculate(ctx context.Context, asOf time.Time) (Session, error) {
	if s.current == nil || s.current.Summary == nil {
		return Session{}, ErrNoData
	}
	session := s.current.Clone()
	session.Summary = allocate.Calculate(session.Records, session.Summary.Month, asOf, s.rules)
	if err := s.persist(ctx, session); err != nil {
		return Session{}, err
	}
	s.current = &session
	return session.Clone(), nil
}

// ApplyEdit overrides one aggregate total and reconciles the other view.
// Unknown entities leave the session unchanged and return ErrNotFound.
func (s *Service) ApplyEdit(ctx context.Context, in EditInput) (Session, error) {
	if s.current == nil || s.current.Summary == nil {
		return Session{}, ErrNoData
	}

	// Work on a scratch copy so a failed persist cannot leave a half-applied
	// edit behind.
	session := s.current.Clone()
	var err error
	switch in.Entity {
	case EntityProject:
		err = allocate.ApplyProjectEdit(session.Summary, in.ID, in.Hours)
	case EntityPerson:
		err = allocate.ApplyPersonEdit(session.Summary, in.ID, in.Hours)
	default:
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidEntity, in.Entity)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnknownProject) || errors.Is(err, domain.ErrUnknownPerson) {
			return Session{}, fmt.Errorf("%w: %s %q", ErrNotFound, in.Entity, in.ID)
		}
		return Session{}, err
	}

	if err := s.persist(ctx, session); err != nil {
		return Session{}, err
	}
	s.current = &session
	return session.Clone(), nil
}

// Forecast projects the coming months from the current session's records.
// Each month runs through the same calculator with an as-of date just before
// the month, so every hour lands in remaining.
func (s *Service) Forecast(months int) ([]ForecastMonth, error) {
	if s.current == nil || s.current.Summary == nil {
		return nil, ErrNoData
	}
	if months <= 0 {
		return nil, nil
	}

	base := s.current.Summary.Month
	out := make([]ForecastMonth, 0, months)
	for i := 1; i <= months; i++ {
		month := base.Next(i)
		set := allocate.Calculate(s.current.Records, month, month.First().AddDate(0, 0, -1), s.rules)

		fm := ForecastMonth{Month: month}
		for _, p := range set.ProjectSummaries() {
			fm.Projects = append(fm.Projects, ProjectForecast{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				Hours:       p.Total,
			})
			fm.Total = domain.Round1(fm.Total + p.Total)
		}
		out = append(out, fm)
	}
	return out, nil
}

func (s *Service) persist(ctx context.Context, session Session) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
