// Package writers turns correction results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (FASTA, report TSV/JSON/JSONL, change log).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
//
// Every writer runs in its own goroutine fed by a channel; the error channel
// yields exactly one value once the input channel is closed.
package writers
