// Package ziptype holds the types shared by the archiver, the extractor and
// the public ziptree package: entry kinds, per-entry options, policies,
// progress events and sentinel errors.
package ziptype
