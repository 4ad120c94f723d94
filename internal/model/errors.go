// Package model provides data models for the landscape monitor.
package model

import "fmt"

// UnknownIndicatorError reports a measurement record referencing an
// indicator with no definition or threshold rule. Classification fails
// loudly on this: silently defaulting to NORMAL could hide a real alert.
type UnknownIndicatorError struct {
	Indicator string
}

// Error implements the error interface.
func (e *UnknownIndicatorError) Error() string {
	return fmt.Sprintf("unknown indicator %q: no threshold rule configured", e.Indicator)
}

// UnknownZoneError reports a measurement record referencing a zone absent
// from the zone registry. The record is excluded from aggregation and the
// skip is surfaced to the caller.
type UnknownZoneError struct {
	Zone string
}

// Error implements the error interface.
func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("unknown zone %q: not present in zone registry", e.Zone)
}
