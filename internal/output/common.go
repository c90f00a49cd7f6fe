package output

// Report formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// ReportHeader is the canonical header row for the text report.
// Keep this as the single source of truth; all writers should use it.
const ReportHeader = "contig\tshard\tlength\tcorrected_length\tsubstitutions\tdeletions\tinsertion_events\tinserted_bases\tprocessed\tadmitted\tunaligned\tmate_elsewhere\talt_placement\tshort_interior\tmalformed\ttruncated\terror"

// ChangesHeader is the header row of the --changes TSV.
const ChangesHeader = "contig\tpos\tkind\tfrom\tto"
