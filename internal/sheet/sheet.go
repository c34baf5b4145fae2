package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sala-service/internal/models"
	"sala-service/pkg/response"
)

// Required columns of the reservations sheet. Header names follow the source
// spreadsheet.
var ruleColumns = []string{
	"Sala", "Dia da semana", "Data Início", "Hora Início",
	"Hora fim", "Recorrência", "Grupo", "Atividade",
	"Responsável", "Status",
}

// ParseRules reads the reservations sheet. A missing required column is fatal
// for the whole invocation; nothing is partially parsed.
func ParseRules(r io.Reader) ([]models.ReservationRule, error) {
	const op = "sheet.ParseRules"

	header, rows, err := readSheet(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	index, err := columnIndex(header, ruleColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rules := make([]models.ReservationRule, 0, len(rows))
	for _, row := range rows {
		cell := func(name string) string {
			return strings.TrimSpace(row[index[name]])
		}

		rules = append(rules, models.ReservationRule{
			Room:         cell("Sala"),
			WeekdayLabel: cell("Dia da semana"),
			StartDate:    cell("Data Início"),
			StartTime:    cell("Hora Início"),
			EndTime:      cell("Hora fim"),
			Recurrence:   cell("Recorrência"),
			Group:        cell("Grupo"),
			Activity:     cell("Atividade"),
			Responsible:  cell("Responsável"),
			Status:       cell("Status"),
		})
	}

	return rules, nil
}

// ParseRooms reads the room reference sheet. Blank or non-numeric capacities
// coerce to 0.
func ParseRooms(r io.Reader) ([]models.Room, error) {
	const op = "sheet.ParseRooms"

	header, rows, err := readSheet(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	index, err := columnIndex(header, []string{"Sala", "Capacidade"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, models.Room{
			Name:     strings.TrimSpace(row[index["Sala"]]),
			Capacity: coerceInt(row[index["Capacidade"]]),
		})
	}

	return rooms, nil
}

// ParseGroups reads the group reference sheet. Missing participant counts
// coerce to 0.
func ParseGroups(r io.Reader) ([]models.Group, error) {
	const op = "sheet.ParseGroups"

	header, rows, err := readSheet(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	index, err := columnIndex(header, []string{"Grupo", "Participantes"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	groups := make([]models.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, models.Group{
			Name:         strings.TrimSpace(row[index["Grupo"]]),
			Participants: coerceInt(row[index["Participantes"]]),
		})
	}

	return groups, nil
}

// WriteRecommendations exports one CSV row per recommendation, ranked room
// lists joined with "; ".
func WriteRecommendations(w io.Writer, recommendations []models.Recommendation) error {
	const op = "sheet.WriteRecommendations"

	cw := csv.NewWriter(w)

	header := []string{
		"id_conflito", "sala", "data", "grupo1", "grupo2",
		"salas_recomendadas_g1", "salas_recomendadas_g2",
		"outras_salas_livres_g1", "outras_salas_livres_g2",
		"ajuste_tempo", "resolvido",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, rec := range recommendations {
		row := []string{
			rec.ConflictID,
			rec.Room,
			rec.Date,
			rec.GroupA,
			rec.GroupB,
			strings.Join(rec.RecommendedA, "; "),
			strings.Join(rec.RecommendedB, "; "),
			strings.Join(rec.OtherFreeA, "; "),
			strings.Join(rec.OtherFreeB, "; "),
			rec.TimeAdjustment,
			strconv.FormatBool(rec.Resolved),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func readSheet(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return header, records[1:], nil
}

func columnIndex(header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", response.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return index, nil
}

func coerceInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}

	return 0
}
