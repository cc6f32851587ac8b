// Package content holds the curated portfolio catalog: profile, featured and
// additional projects, skills, career timeline, and the summaries shown by
// the interactive terminal.
//
// The default catalog is embedded in the binary as TOML and parsed once by
// [Default]. [Load] reads a replacement catalog from disk in TOML or YAML.
// Every catalog is validated when loaded, so consumers such as
// [Catalog.Curated] can assume well-formed input.
package content
