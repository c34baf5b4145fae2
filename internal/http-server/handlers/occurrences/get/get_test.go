package get

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"sala-service/api"
	"sala-service/internal/models"
	"sala-service/pkg/response"
)

type stubBuilder struct {
	result *api.ScheduleResult
	err    error
}

func (s *stubBuilder) BuildSchedule(_ context.Context) (*api.ScheduleResult, error) {
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetOccurrences_KeepsRuleColumns(t *testing.T) {
	builder := &stubBuilder{
		result: &api.ScheduleResult{
			Occurrences: []models.Occurrence{
				{
					ReservationRule: models.ReservationRule{
						Room:         "Sala A",
						WeekdayLabel: "segunda-feira",
						StartDate:    "05/01/2026",
						StartTime:    "19:00",
						EndTime:      "21:00",
						Recurrence:   "Semanal-Segunda",
						Group:        "Coral",
						Activity:     "Ensaio",
						Responsible:  "Ana",
						Status:       "Confirmado",
					},
					Date: "12/01/2026",
					ID:   "abcd1234",
				},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/schedule/occurrences", nil)
	rec := httptest.NewRecorder()

	New(discardLogger(), builder)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Occurrences []map[string]any `json:"occurrences"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Occurrences) != 1 {
		t.Fatalf("occurrences = %d, want 1", len(resp.Occurrences))
	}

	got := resp.Occurrences[0]
	want := map[string]string{
		"occurrence_id":   "abcd1234",
		"occurrence_date": "12/01/2026",
		"room":            "Sala A",
		"weekday_label":   "segunda-feira",
		"start_date":      "05/01/2026",
		"start_time":      "19:00",
		"end_time":        "21:00",
		"recurrence":      "Semanal-Segunda",
		"group":           "Coral",
		"activity":        "Ensaio",
		"responsible":     "Ana",
		"status":          "Confirmado",
	}
	for field, value := range want {
		if got[field] != value {
			t.Errorf("%s = %v, want %q", field, got[field], value)
		}
	}
}

func TestGetOccurrences_NoRules(t *testing.T) {
	builder := &stubBuilder{err: fmt.Errorf("service.BuildSchedule: %w", response.ErrNoRules)}

	req := httptest.NewRequest(http.MethodGet, "/schedule/occurrences", nil)
	rec := httptest.NewRecorder()

	New(discardLogger(), builder)(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
