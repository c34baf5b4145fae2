package api

import (
	"sala-service/internal/models"
	"sala-service/internal/schedule"
)

// ScheduleResult is the full output of one pipeline run. It is what gets
// memoized in the cache and what every read handler serves slices of.
type ScheduleResult struct {
	PlanningYear    int                     `json:"planning_year"`
	Fingerprint     string                  `json:"fingerprint"`
	Occurrences     []models.Occurrence     `json:"occurrences"`
	Conflicts       []models.Conflict       `json:"conflicts"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Warnings        []models.Warning        `json:"warnings"`
	Stats           schedule.Stats          `json:"stats"`
}

// ConflictFilters narrows the conflict listing. Zero values mean "no filter".
type ConflictFilters struct {
	Room         string
	Group        string
	Weekday      string
	Date         string
	ShortOverlap bool
}

// ImportRequest carries the three source sheets as raw CSV text.
type ImportRequest struct {
	RulesCSV  string `json:"rules_csv"`
	RoomsCSV  string `json:"rooms_csv"`
	GroupsCSV string `json:"groups_csv"`
}

// ImportResponse reports how many rows each sheet contributed.
type ImportResponse struct {
	Rules  int `json:"rules"`
	Rooms  int `json:"rooms"`
	Groups int `json:"groups"`
}
