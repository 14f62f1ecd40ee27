package schema

// Custom string types for type safety.
type (
	// StatusKind is a canonical RAG status, or the raw label for unrecognized input.
	StatusKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// SortMode represents the ordering of targets in a period view.
	SortMode string

	// DatabaseBackend represents the database backend for ingestion history.
	DatabaseBackend string
)

// All canonical status kinds. The values double as display labels.
const (
	OnTrackKind    StatusKind = "On track"
	AtRiskKind     StatusKind = "At risk"
	NotOnTrackKind StatusKind = "Not on track"
	DoneKind       StatusKind = "Done"
	OnHoldKind     StatusKind = "On hold"
	TBDKind        StatusKind = "TBD"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All sort modes supported.
const (
	SeveritySort SortMode = "severity" // default
	InputSort    SortMode = "input"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// SeverityOrder lists the canonical kinds from most to least severe.
// Legends, tiles and stacked bars are drawn in this order.
var SeverityOrder = []StatusKind{NotOnTrackKind, AtRiskKind, OnTrackKind, DoneKind, OnHoldKind, TBDKind}

// ValidStatusKinds lists all canonical status kinds.
var ValidStatusKinds = map[StatusKind]struct{}{
	OnTrackKind:    {},
	AtRiskKind:     {},
	NotOnTrackKind: {},
	DoneKind:       {},
	OnHoldKind:     {},
	TBDKind:        {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSortModes lists all valid sort modes.
var ValidSortModes = map[SortMode]struct{}{
	SeveritySort: {},
	InputSort:    {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsCanonical reports whether k is one of the six canonical kinds.
func (k StatusKind) IsCanonical() bool {
	_, ok := ValidStatusKinds[k]
	return ok
}

// IsActive reports whether k participates in rollup decisions.
// On hold and TBD are parked; everything else counts, unknown labels included.
func (k StatusKind) IsActive() bool {
	return k != OnHoldKind && k != TBDKind
}
