// Package domain holds the telephony records, identifiers and errors shared
// by every telebus layer.
//
// It has no dependencies on the bus transport or logging. Records are plain
// structs decoded from property bags through the tables declared in
// records.go.
//
// # Records
//
//   - [ModemInfo], [SimInfo], [RegistrationInfo], [OperatorInfo]
//   - [ApnContext] and its nested [IpSettings]
//   - [CallForwardInfo], [CallBarringInfo], [SsInitiateInfo]
//   - [MessageInfo], [ModemActivityInfo], [PropertyChange]
package domain
