// pkg/api/report_v1.go
package api

// ContigReportV1 is the stable JSON/JSONL schema for one corrected contig.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ContigReportV1 struct {
	RunID           string       `json:"run_id"`
	Contig          string       `json:"contig"`
	Shard           string       `json:"shard,omitempty"`
	Length          int          `json:"length"`
	CorrectedLength int          `json:"corrected_length"`
	Substitutions   int          `json:"substitutions"`
	Deletions       int          `json:"deletions"`
	InsertionEvents int          `json:"insertion_events"`
	InsertedBases   int          `json:"inserted_bases"`
	Reads           ReadCountsV1 `json:"reads"`
	Error           string       `json:"error,omitempty"`
}

// ReadCountsV1 breaks down what happened to the records routed to a contig.
type ReadCountsV1 struct {
	Processed     int `json:"processed"`
	Admitted      int `json:"admitted"`
	Unaligned     int `json:"unaligned"`
	MateElsewhere int `json:"mate_elsewhere"`
	AltPlacement  int `json:"alt_placement"`
	ShortInterior int `json:"short_interior"`
	Malformed     int `json:"malformed"`
	Truncated     int `json:"truncated"`
}

// RunSummaryV1 holds stream-level counts not charged to any contig.
type RunSummaryV1 struct {
	RunID     string `json:"run_id"`
	Contigs   int    `json:"contigs"`
	Records   int    `json:"records"`
	Unplaced  int    `json:"unplaced"`
	Unrouted  int    `json:"unrouted"`
	Malformed int    `json:"malformed"`
	Filtered  int    `json:"filtered,omitempty"`
	Failed    int    `json:"failed_shards,omitempty"`
}

// ReportV1 is the document written by --report-format json.
type ReportV1 struct {
	RunID   string           `json:"run_id"`
	Contigs []ContigReportV1 `json:"contigs"`
	Summary *RunSummaryV1    `json:"summary,omitempty"`
}
