// Package export renders standings and progressions as spreadsheets and charts.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/trend"
)

// Sheet names of the standings workbook.
const (
	SheetDrivers      = "Drivers"
	SheetConstructors = "Constructors"
	SheetProgression  = "Progression"
)

// Workbook renders both championships and the progression into an xlsx file.
// Progression rows follow the drivers' standings order.
func Workbook(table standings.Table, tr trend.Trend) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetDrivers); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetConstructors, SheetProgression} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	drivers := [][]any{{"Pos", "Driver", "Team", "Points", "Wins", "Podiums", "Best finish"}}
	for _, row := range table.Drivers {
		best := any(row.BestFinish)
		if row.BestFinish == standings.NoFinish {
			best = "-"
		}
		drivers = append(drivers, []any{row.Position, row.Name, row.TeamID, row.Points, row.Wins, row.Podiums, best})
	}

	teams := [][]any{{"Pos", "Constructor", "Points"}}
	for _, row := range table.Teams {
		teams = append(teams, []any{row.Position, row.Name, row.Points})
	}

	header := []any{"Driver"}
	for _, p := range tr.Events {
		header = append(header, fmt.Sprintf("R%d %s", p.Round, p.Name))
	}
	progression := [][]any{header}
	for _, row := range table.Drivers {
		line := []any{row.Name}
		for _, v := range tr.Cumulative[row.DriverID] {
			line = append(line, v)
		}
		progression = append(progression, line)
	}

	for sheet, rows := range map[string][][]any{
		SheetDrivers:      drivers,
		SheetConstructors: teams,
		SheetProgression:  progression,
	} {
		if err := writeRows(f, sheet, rows, bold); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
