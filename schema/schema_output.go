package schema

import "fmt"

// Tiles are the header-level summary counts for a period.
type Tiles struct {
	NotOnTrack  int `json:"not_on_track"`
	AtRisk      int `json:"at_risk"`
	OnTrackDone int `json:"on_track_done"` // OnTrack + Done
	Neutral     int `json:"neutral"`       // OnHold + TBD
	Other       int `json:"other"`         // unrecognized labels
	Objectives  int `json:"objectives"`
}

// TargetCard is a TargetAggregate enriched for presentation.
type TargetCard struct {
	Rank       int    `json:"rank"`
	Target     string `json:"target"`
	Objectives int    `json:"objectives"`
	Totals     Totals `json:"totals"`
	Headline   string `json:"headline"`
}

// PeriodView is everything a renderer needs for one selected period.
type PeriodView struct {
	Period     PeriodKey    `json:"period"`
	Pulse      string       `json:"pulse"`
	GrandTotal Totals       `json:"grand_total"`
	Tiles      Tiles        `json:"tiles"`
	Targets    []TargetCard `json:"targets"`
}

// PeriodListing maps each available year to its PI cycles.
type PeriodListing struct {
	Years   []string            `json:"years"`
	Cycles  map[string][]string `json:"cycles"`
	Default PeriodKey           `json:"default"`
}

// IngestResult describes a successful ingestion.
type IngestResult struct {
	RunID   string      `json:"run_id"`
	Source  string      `json:"source"`
	Rows    int         `json:"rows"`
	Periods []PeriodKey `json:"periods"`
}

// Current is the period the view switches to: the last one ingested.
func (r IngestResult) Current() PeriodKey {
	if len(r.Periods) == 0 {
		return PeriodKey{}
	}
	return r.Periods[len(r.Periods)-1]
}

// Message is the user-facing confirmation for the ingestion.
func (r IngestResult) Message() string {
	cur := r.Current()
	return fmt.Sprintf("Loaded %d period(s). Switched to %s %s.", len(r.Periods), cur.Year, cur.PICycle)
}
