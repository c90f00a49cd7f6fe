// Package pipeline drives correction passes: it reads contigs and SAM
// records, routes each record to the session of the contig it names, and
// hands back one Outcome per contig in reference order.
//
// Contigs are independent, so each worker owns a disjoint set of contig
// sessions and no state is shared between workers. Shard mode treats each
// pre-split <name>.fasta + <name>.pair.sam pair as its own job.
package pipeline
