package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sala-service/internal/models"
	"sala-service/pkg/sequence"
)

// Expand turns reservation rules into concrete occurrences, one per calendar
// date the rule fires, bounded by yearEnd (inclusive). Rules that fail to
// expand degrade to a single occurrence on their raw start date and are
// reported as warnings; the batch never aborts on one bad row.
func Expand(rules []models.ReservationRule, yearEnd time.Time) ([]models.Occurrence, []models.Warning) {
	var occurrences []models.Occurrence
	var warnings []models.Warning

	single := func(rule models.ReservationRule) {
		occurrences = append(occurrences, models.Occurrence{
			ReservationRule: rule,
			Date:            rule.StartDate,
		})
	}

	for idx, rule := range rules {
		recurrence := strings.TrimSpace(rule.Recurrence)
		if recurrence == "" {
			single(rule)
			continue
		}

		expanded, err := expandRule(rule, recurrence, yearEnd)
		if err != nil {
			warnings = append(warnings, models.Warning{
				Row:    idx,
				Rule:   fmt.Sprintf("%s / %s @ %s", rule.Group, rule.Activity, rule.Room),
				Reason: err.Error(),
			})
			single(rule)
			continue
		}

		occurrences = append(occurrences, expanded...)
	}

	for i := range occurrences {
		o := &occurrences[i]
		o.ID = sequence.GenerateID(o.Group, o.Room, o.Date, o.StartTime)
	}

	return occurrences, warnings
}

func expandRule(rule models.ReservationRule, recurrence string, yearEnd time.Time) ([]models.Occurrence, error) {
	const op = "schedule.expandRule"

	start, err := ParseDayFirst(rule.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start date %q: %w", op, rule.StartDate, err)
	}

	parts := strings.Split(recurrence, "-")

	switch {
	case parts[0] == "Semanal" && len(parts) >= 2:
		return stepOccurrences(rule, start, yearEnd, 7), nil

	case parts[0] == "Quinzenal" && len(parts) >= 2:
		return stepOccurrences(rule, start, yearEnd, 14), nil

	case parts[0] == "Mensal" && len(parts) >= 3:
		ordinal, err := strconv.Atoi(strings.TrimSuffix(parts[1], "º"))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid ordinal %q: %w", op, parts[1], err)
		}

		return monthlyOccurrences(rule, yearEnd.Year(), ordinal, parts[2]), nil

	default:
		// Unrecognized recurrence token, treat the rule as a one-off.
		return []models.Occurrence{{ReservationRule: rule, Date: rule.StartDate}}, nil
	}
}

func stepOccurrences(rule models.ReservationRule, start, yearEnd time.Time, stepDays int) []models.Occurrence {
	var out []models.Occurrence

	for d := start; !d.After(yearEnd); d = d.AddDate(0, 0, stepDays) {
		out = append(out, models.Occurrence{
			ReservationRule: rule,
			Date:            FormatDayFirst(d),
		})
	}

	return out
}

// monthlyOccurrences emits the ordinal-th occurrence of the named weekday in
// each month of the planning year, skipping months that have fewer of them.
// Weekday names index Sunday=0 through Saturday=6; unknown names fall back to
// Sunday, matching the source sheet's convention.
func monthlyOccurrences(rule models.ReservationRule, year, ordinal int, weekdayName string) []models.Occurrence {
	target := time.Weekday(weekdayIndex[weekdayName])

	var out []models.Occurrence

	for month := time.January; month <= time.December; month++ {
		count := 0
		for day := 1; day <= 31; day++ {
			d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if d.Month() != month {
				break
			}

			if d.Weekday() != target {
				continue
			}

			count++
			if count == ordinal {
				out = append(out, models.Occurrence{
					ReservationRule: rule,
					Date:            FormatDayFirst(d),
				})
				break
			}
		}
	}

	return out
}
