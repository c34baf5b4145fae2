package schedule

import (
	"math"

	"sala-service/internal/models"
)

// Stats summarizes one pipeline run for the dashboard consumer.
type Stats struct {
	TotalRules           int            `json:"total_rules"`
	TotalOccurrences     int            `json:"total_occurrences"`
	TotalConflicts       int            `json:"total_conflicts"`
	TotalRooms           int            `json:"total_rooms"`
	TotalGroups          int            `json:"total_groups"`
	ResolvedConflicts    int            `json:"resolved_conflicts"`
	ConflictFreePercent  float64        `json:"conflict_free_percent"`
	ConflictsByRoom      map[string]int `json:"conflicts_by_room"`
	BusiestRoom          string         `json:"busiest_room"`
	BusiestRoomConflicts int            `json:"busiest_room_conflicts"`
}

// BuildStats computes run-level figures: distinct rooms/groups referenced by
// the rules, conflicts per room, and the share of occurrences that appear in
// no conflict pair.
func BuildStats(rules []models.ReservationRule, occurrences []models.Occurrence, conflicts []models.Conflict, recommendations []models.Recommendation) Stats {
	roomSet := make(map[string]struct{})
	groupSet := make(map[string]struct{})
	for _, r := range rules {
		roomSet[r.Room] = struct{}{}
		groupSet[r.Group] = struct{}{}
	}

	byRoom := make(map[string]int)
	inConflict := make(map[string]struct{})
	for _, c := range conflicts {
		byRoom[c.Room]++
		inConflict[c.A.OccurrenceID] = struct{}{}
		inConflict[c.B.OccurrenceID] = struct{}{}
	}

	busiest := ""
	busiestCount := 0
	for room, n := range byRoom {
		if n > busiestCount || (n == busiestCount && busiest != "" && room < busiest) {
			busiest = room
			busiestCount = n
		}
	}

	resolved := 0
	for _, rec := range recommendations {
		if rec.Resolved {
			resolved++
		}
	}

	percent := 100.0
	if len(occurrences) > 0 {
		clean := len(occurrences) - len(inConflict)
		percent = math.Round(float64(clean)/float64(len(occurrences))*1000) / 10
	}

	return Stats{
		TotalRules:           len(rules),
		TotalOccurrences:     len(occurrences),
		TotalConflicts:       len(conflicts),
		TotalRooms:           len(roomSet),
		TotalGroups:          len(groupSet),
		ResolvedConflicts:    resolved,
		ConflictFreePercent:  percent,
		ConflictsByRoom:      byRoom,
		BusiestRoom:          busiest,
		BusiestRoomConflicts: busiestCount,
	}
}
