// Package harness runs pairing scenarios defined in YAML and compares
// their output against golden files.
//
// A scenario pins down a roster, a synthetic pairing history, and a track
// mode. The harness executes the engine with the shuffle stubbed to keep
// roster order, so the assignment is a pure function of the scenario file
// and the golden file is stable across runs and platforms.
//
// Golden files live in testdata/golden/{name}.golden and regenerate with:
//
//	go test ./internal/harness -update
package harness
