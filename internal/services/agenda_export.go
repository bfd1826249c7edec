package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"agenda-system/internal/dto"
)

const agendaSheet = "Agenda"

var agendaHeaders = []string{
	"Titolo", "Inizio", "Fine", "Stato", "Responsabile", "Ordine", "Colore", "Note",
}

// BuildAgendaWorkbook выгружает повестку оператора в xlsx. Время пишется в часовом поясе loc.
func BuildAgendaWorkbook(operatorName string, entries []dto.AgendaEntryDTO, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", agendaSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(agendaSheet, "A1", &agendaHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(agendaSheet, "A1", "H1", style); err != nil {
		return nil, err
	}

	for i, e := range entries {
		row := []interface{}{
			e.Title,
			formatExportTime(e.Start, loc),
			formatExportTime(e.End, loc),
			e.Status,
			e.Responsible,
			e.OrderLabel,
			e.Color,
			strings.Join(e.Notes, "\n"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(agendaSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(agendaSheet, "A", "A", 50)
	_ = f.SetColWidth(agendaSheet, "B", "C", 18)
	_ = f.SetColWidth(agendaSheet, "D", "E", 20)
	_ = f.SetColWidth(agendaSheet, "F", "F", 35)
	_ = f.SetColWidth(agendaSheet, "H", "H", 60)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Agenda - %s", operatorName),
		Creator: "agenda-system",
	}); err != nil {
		return nil, err
	}
	return f, nil
}

func AgendaExportFileName(operatorName string, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '"', ';':
			return '_'
		}
		return r
	}, operatorName)
	return fmt.Sprintf("agenda_%s_%s.xlsx", name, now.Format("2006-01-02"))
}

func formatExportTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
