package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"sala-service/internal/models"
	"sala-service/pkg/response"
)

const rulesCSV = `Sala,Dia da semana,Data Início,Hora Início,Hora fim,Recorrência,Grupo,Atividade,Responsável,Status
Salão Paroquial,segunda-feira,05/01/2026,19:00,21:00,Semanal-Segunda,Coral,Ensaio,Maria,Confirmado
Sala 2,domingo,11/01/2026,10:00,,Mensal-2º-Domingo,Catequese,Encontro,João,Opção 1
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules(strings.NewReader(rulesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}

	first := rules[0]
	if first.Room != "Salão Paroquial" || first.Recurrence != "Semanal-Segunda" || first.EndTime != "21:00" {
		t.Errorf("first rule parsed wrong: %+v", first)
	}
	if rules[1].EndTime != "" {
		t.Errorf("blank end time should stay empty, got %q", rules[1].EndTime)
	}
}

func TestParseRules_MissingColumns(t *testing.T) {
	csv := "Sala,Data Início,Hora Início\nSala 1,05/01/2026,09:00\n"

	_, err := ParseRules(strings.NewReader(csv))
	if !errors.Is(err, response.ErrMissingColumns) {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), "Recorrência") {
		t.Errorf("error %q should name the missing columns", err)
	}
}

func TestParseRooms_Coercion(t *testing.T) {
	csv := "Sala,Capacidade\nSalão,120\nSala 2,\nSala 3,abc\nSala 4,45.0\n"

	rooms, err := ParseRooms(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.Room{
		{Name: "Salão", Capacity: 120},
		{Name: "Sala 2", Capacity: 0},
		{Name: "Sala 3", Capacity: 0},
		{Name: "Sala 4", Capacity: 45},
	}
	for i, r := range rooms {
		if r != want[i] {
			t.Errorf("room %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestParseGroups(t *testing.T) {
	csv := "Grupo,Participantes\nCoral,35\nCatequese,\n"

	groups, err := ParseGroups(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if groups[0].Participants != 35 || groups[1].Participants != 0 {
		t.Errorf("participants parsed wrong: %+v", groups)
	}
}

func TestWriteRecommendations(t *testing.T) {
	recs := []models.Recommendation{
		{
			ConflictID:     "abcd1234",
			Room:           "Salão",
			Date:           "04/01/2026",
			GroupA:         "Coral",
			GroupB:         "Catequese",
			RecommendedA:   []string{"Sala 2", "Sala 3"},
			TimeAdjustment: "20 min overlap: shifting one booking by 30 minutes clears it",
			Resolved:       true,
		},
	}

	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, recs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id_conflito,sala,data") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Sala 2; Sala 3") {
		t.Errorf("row %q should join recommended rooms", lines[1])
	}
	if !strings.Contains(lines[1], "true") {
		t.Errorf("row %q should carry the resolved flag", lines[1])
	}
}
