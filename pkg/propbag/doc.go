// Package propbag decodes property bags into fixed-shape records.
//
// The remote telephony service describes its objects as ordered sequences
// of (name, variant) pairs. This package turns those sequences into plain
// Go structs without any per-call string matching: each record kind gets a
// [Table] built once, mapping property names to field setters.
//
// # Tables
//
//	var operatorTable = propbag.NewTable("OperatorInfo",
//		propbag.ObjectID[OperatorInfo]("Path", 128),
//		propbag.Str[OperatorInfo]("Name", "Name", 64),
//		propbag.Str[OperatorInfo]("Status", "Status", 16),
//	)
//
// NewTable panics when the bindings do not cover every exported field of
// the record, so a missing property is caught at init rather than in
// production.
//
// # Decoding rules
//
//   - Unknown property names are ignored.
//   - Strings longer than the declared capacity leave the field unchanged.
//   - Values of the wrong type are skipped and listed in [Report.Dropped].
//   - Fixed numeric arrays of the wrong length fail the whole record with
//     [ErrMalformed].
//   - [DecodeList] keeps at most max entries and counts the rest in
//     [Report.Truncated].
//
// Decoding is deterministic: the same bag always yields an equal record.
package propbag
