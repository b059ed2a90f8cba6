// Package services implements the core card pipeline: text
// normalisation, signature building with capability-detected backends,
// the similarity index, the duplicate decision engine, and the pipeline
// orchestrator that sequences fetch, generation, deduplication and
// export.
//
// Services depend only on domain types and driven ports; all I/O goes
// through adapters.
package services
