// internal/output/convert.go
package output

import (
	"contigfix-core/engine"
	"contigfix-core/policy"
	"contigfix/pkg/api"
)

// ToAPIContig converts one contig result to the stable wire schema (v1).
// A non-nil err marks a shard that could not be corrected.
func ToAPIContig(runID, shard string, r engine.Result, err error) api.ContigReportV1 {
	v := api.ContigReportV1{
		RunID:           runID,
		Contig:          r.ID,
		Shard:           shard,
		Length:          r.OrigLen,
		CorrectedLength: len(r.Seq),
		Substitutions:   r.Stats.Substitutions,
		Deletions:       r.Stats.Deletions,
		InsertionEvents: r.Stats.InsertionEvents,
		InsertedBases:   r.Stats.InsertedBases,
		Reads: api.ReadCountsV1{
			Processed:     r.Reads.Processed,
			Admitted:      r.Reads.Admitted(),
			Unaligned:     r.Reads.Rejected[policy.Unaligned],
			MateElsewhere: r.Reads.Rejected[policy.MateElsewhere],
			AltPlacement:  r.Reads.Rejected[policy.AltPlacement],
			ShortInterior: r.Reads.Rejected[policy.ShortInterior],
			Malformed:     r.Reads.Malformed,
			Truncated:     r.Reads.Truncated,
		},
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}
