package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/parquet"
	"github.com/huangsam/ragboard/schema"

	"github.com/olekukonko/tablewriter"
)

// WritePeriodListing outputs the available years and PI cycles.
func WritePeriodListing(listing schema.PeriodListing, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, listing)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeListingCSV(w, listing)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteFile(parquet.ConvertPeriodListing(listing), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeListingTable(w, listing, cfg)
		}, "Wrote table")
	}
}

func writeListingTable(w io.Writer, listing schema.PeriodListing, cfg *contract.Config) error {
	if len(listing.Years) == 0 {
		_, err := fmt.Fprintln(w, "No periods loaded.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "PI Cycles"})

	var data [][]string
	for _, year := range listing.Years {
		cycles := make([]string, 0, len(listing.Cycles[year]))
		for _, pi := range listing.Cycles[year] {
			if listing.Default == schema.NewPeriodKey(year, pi) {
				pi += "*"
			}
			cycles = append(cycles, pi)
		}
		data = append(data, []string{year, strings.Join(cycles, ", ")})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%sDefault: %s\n", emojiPrefix(cfg, "⭐"), listing.Default)
	return err
}

func writeListingCSV(w io.Writer, listing schema.PeriodListing) error {
	return writeCSVWithHeader(w, []string{"year", "pi", "default"}, func(csvWriter *csv.Writer) error {
		for _, year := range listing.Years {
			for _, pi := range listing.Cycles[year] {
				isDefault := listing.Default == schema.NewPeriodKey(year, pi)
				if err := csvWriter.Write([]string{year, pi, strconv.FormatBool(isDefault)}); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
		}
		return nil
	})
}
