package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/parquet"
	"github.com/huangsam/ragboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePeriodView outputs one period's dashboard, dispatching based on the output format configured.
func WritePeriodView(view schema.PeriodView, cfg *contract.Config, showHeader bool) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeViewCSV(w, view)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteFile(parquet.ConvertPeriodView(view), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if showHeader {
				writeViewHeader(w, view, cfg)
			}
			return writeViewTable(w, view, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeViewHeader prints the period, its pulse and the summary tiles.
func writeViewHeader(w io.Writer, view schema.PeriodView, cfg *contract.Config) {
	pulse := view.Pulse
	if cfg.UseColors {
		pulse = contract.GetHeadlineColor(view.GrandTotal).Sprint(pulse)
	}
	_, _ = fmt.Fprintf(w, "%sPeriod: %s (%d objectives)\n", emojiPrefix(cfg, "🗓️ "), view.Period, view.Tiles.Objectives)
	_, _ = fmt.Fprintf(w, "%sPulse: %s\n", emojiPrefix(cfg, "📣"), pulse)

	tiles := fmt.Sprintf("%s: %d | %s: %d | On track/Done: %d | On hold/TBD: %d",
		contract.GetPlainLabel(schema.NotOnTrackKind), view.Tiles.NotOnTrack,
		contract.GetPlainLabel(schema.AtRiskKind), view.Tiles.AtRisk,
		view.Tiles.OnTrackDone, view.Tiles.Neutral)
	if view.Tiles.Other > 0 {
		tiles += fmt.Sprintf(" | %s: %d", contract.OtherLabel, view.Tiles.Other)
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", emojiPrefix(cfg, "📊"), tiles)
}

// writeViewTable generates and writes the per-target table.
func writeViewTable(w io.Writer, view schema.PeriodView, cfg *contract.Config) error {
	if len(view.Targets) == 0 {
		_, err := fmt.Fprintf(w, "No data for %s.\n", view.Period)
		return err
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", "Target", "Obj", "Bar"}
	for _, kind := range schema.SeverityOrder {
		headers = append(headers, contract.GetPlainLabel(kind))
	}
	headers = append(headers, contract.OtherLabel, "Headline")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	barWidth := GetBarWidth(cfg)
	targetWidth := GetMaxTargetWidth(cfg)
	var data [][]string
	for _, card := range view.Targets {
		headline := card.Headline
		if cfg.UseColors {
			headline = contract.GetHeadlineColor(card.Totals).Sprint(headline)
		}
		row := []string{
			strconv.Itoa(card.Rank),
			contract.TruncateText(card.Target, targetWidth),
			strconv.Itoa(card.Objectives),
			RenderStackedBar(card.Totals, barWidth, cfg.UseColors),
		}
		for _, kind := range schema.SeverityOrder {
			row = append(row, strconv.Itoa(card.Totals[kind]))
		}
		row = append(row, strconv.Itoa(card.Totals.Unknown()), headline)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Legend: %s\n", BarLegend(cfg.UseColors))
	return err
}

// writeViewCSV writes one row per target with a column per status.
func writeViewCSV(w io.Writer, view schema.PeriodView) error {
	header := []string{"year", "pi", "rank", "target", "objectives"}
	for _, kind := range schema.SeverityOrder {
		header = append(header, columnName(kind))
	}
	header = append(header, "other", "headline")

	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, card := range view.Targets {
			row := []string{
				view.Period.Year,
				view.Period.PICycle,
				strconv.Itoa(card.Rank),
				card.Target,
				strconv.Itoa(card.Objectives),
			}
			for _, kind := range schema.SeverityOrder {
				row = append(row, strconv.Itoa(card.Totals[kind]))
			}
			row = append(row, strconv.Itoa(card.Totals.Unknown()), card.Headline)
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
