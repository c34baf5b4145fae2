package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"sala-service/api"
	"sala-service/internal/cache"
	"sala-service/internal/models"
	"sala-service/internal/schedule"
	"sala-service/internal/sheet"
	"sala-service/pkg/response"
	"sala-service/pkg/sequence"
)

type Store interface {
	ListReservationRules(ctx context.Context) ([]models.ReservationRule, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListGroups(ctx context.Context) ([]models.Group, error)

	ReplaceReservationRules(ctx context.Context, rules []models.ReservationRule) error
	ReplaceRooms(ctx context.Context, rooms []models.Room) error
	ReplaceGroups(ctx context.Context, groups []models.Group) error
}

type Service struct {
	store    Store
	cache    cache.Cache
	cacheTTL time.Duration
	yearEnd  time.Time
}

func NewService(store Store, c cache.Cache, planningYear int, cacheTTL time.Duration) *Service {
	return &Service{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		yearEnd:  time.Date(planningYear, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// inputs bundles everything the pipeline result depends on; its fingerprint
// is the cache key.
type inputs struct {
	Rules        []models.ReservationRule `json:"rules"`
	Rooms        []models.Room            `json:"rooms"`
	Groups       []models.Group           `json:"groups"`
	PlanningYear int                      `json:"planning_year"`
}

// BuildSchedule runs the full pipeline over the current source tables:
// recurrence expansion, conflict detection, recommendation generation, stats.
// Results are memoized by input content; cache trouble degrades to a
// recompute, never to a failed request.
func (s *Service) BuildSchedule(ctx context.Context) (*api.ScheduleResult, error) {
	const op = "service.BuildSchedule"

	in, err := s.loadInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(in.Rules) == 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoRules)
	}

	fingerprint, err := sequence.Fingerprint(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, fingerprint); err == nil {
			var cached api.ScheduleResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	occurrences, warnings := schedule.Expand(in.Rules, s.yearEnd)
	conflicts := schedule.Detect(occurrences)
	recommendations := schedule.Recommend(occurrences, in.Rooms, in.Groups, conflicts)
	stats := schedule.BuildStats(in.Rules, occurrences, conflicts, recommendations)

	result := &api.ScheduleResult{
		PlanningYear:    s.yearEnd.Year(),
		Fingerprint:     fingerprint,
		Occurrences:     occurrences,
		Conflicts:       conflicts,
		Recommendations: recommendations,
		Warnings:        warnings,
		Stats:           stats,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, fingerprint, raw, s.cacheTTL)
		}
	}

	return result, nil
}

// Refresh evicts the memoized result for the current source tables, so the
// next read recomputes the pipeline.
func (s *Service) Refresh(ctx context.Context) error {
	const op = "service.Refresh"

	if s.cache == nil {
		return nil
	}

	in, err := s.loadInputs(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	fingerprint, err := sequence.Fingerprint(in)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Del(ctx, fingerprint); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Conflicts lists detected conflicts, filtered and sorted by date.
func (s *Service) Conflicts(ctx context.Context, filters *api.ConflictFilters) ([]models.Conflict, error) {
	const op = "service.Conflicts"

	result, err := s.BuildSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	adjustable := make(map[string]bool, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		adjustable[rec.ConflictID] = rec.TimeAdjustment != ""
	}

	conflicts := make([]models.Conflict, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		if filters != nil && !matchConflict(c, filters, adjustable) {
			continue
		}
		conflicts = append(conflicts, c)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		di, erri := schedule.ParseDayFirst(conflicts[i].Date)
		dj, errj := schedule.ParseDayFirst(conflicts[j].Date)
		if erri != nil || errj != nil {
			return false
		}
		return di.Before(dj)
	})

	return conflicts, nil
}

func matchConflict(c models.Conflict, f *api.ConflictFilters, adjustable map[string]bool) bool {
	if f.Room != "" && c.Room != f.Room {
		return false
	}
	if f.Group != "" && c.A.Group != f.Group && c.B.Group != f.Group {
		return false
	}
	if f.Weekday != "" && !strings.Contains(strings.ToLower(c.Weekday), strings.ToLower(f.Weekday)) {
		return false
	}
	if f.Date != "" && c.Date != f.Date {
		return false
	}
	if f.ShortOverlap && !adjustable[c.ID] {
		return false
	}

	return true
}

// Recommendations lists every advisory record of the current run.
func (s *Service) Recommendations(ctx context.Context) ([]models.Recommendation, error) {
	const op = "service.Recommendations"

	result, err := s.BuildSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result.Recommendations, nil
}

// RecommendationByConflict returns the advisory record for one conflict.
func (s *Service) RecommendationByConflict(ctx context.Context, conflictID string) (*models.Recommendation, error) {
	const op = "service.RecommendationByConflict"

	result, err := s.BuildSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range result.Recommendations {
		if result.Recommendations[i].ConflictID == conflictID {
			return &result.Recommendations[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
}

// ExportRecommendationsCSV streams the recommendation list as CSV.
func (s *Service) ExportRecommendationsCSV(ctx context.Context, w io.Writer) error {
	const op = "service.ExportRecommendationsCSV"

	result, err := s.BuildSchedule(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := sheet.WriteRecommendations(w, result.Recommendations); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ImportSheets validates and stores the provided CSV sheets. Sheets left
// empty in the request keep their current table contents. Column validation
// is all-or-nothing per invocation: nothing is replaced unless every provided
// sheet parses.
func (s *Service) ImportSheets(ctx context.Context, req *api.ImportRequest) (*api.ImportResponse, error) {
	const op = "service.ImportSheets"

	var (
		rules  []models.ReservationRule
		rooms  []models.Room
		groups []models.Group
		err    error
	)

	if req.RulesCSV != "" {
		rules, err = sheet.ParseRules(strings.NewReader(req.RulesCSV))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if req.RoomsCSV != "" {
		rooms, err = sheet.ParseRooms(strings.NewReader(req.RoomsCSV))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if req.GroupsCSV != "" {
		groups, err = sheet.ParseGroups(strings.NewReader(req.GroupsCSV))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	resp := &api.ImportResponse{}

	if req.RulesCSV != "" {
		if err := s.store.ReplaceReservationRules(ctx, rules); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resp.Rules = len(rules)
	}

	if req.RoomsCSV != "" {
		if err := s.store.ReplaceRooms(ctx, rooms); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resp.Rooms = len(rooms)
	}

	if req.GroupsCSV != "" {
		if err := s.store.ReplaceGroups(ctx, groups); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resp.Groups = len(groups)
	}

	return resp, nil
}

func (s *Service) loadInputs(ctx context.Context) (*inputs, error) {
	rules, err := s.store.ListReservationRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	return &inputs{
		Rules:        rules,
		Rooms:        rooms,
		Groups:       groups,
		PlanningYear: s.yearEnd.Year(),
	}, nil
}
