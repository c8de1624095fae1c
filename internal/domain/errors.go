package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPairedArrival is returned when a departure row has no single matching arrival row
	ErrMissingPairedArrival = errors.New("missing paired arrival")

	// ErrCrossBodyInPlaceRepair is returned when an in-body history only exists in a different component body
	ErrCrossBodyInPlaceRepair = errors.New("cross-body in-place repair")

	// ErrInvalidOverride is returned when a part override cannot be applied
	ErrInvalidOverride = errors.New("invalid part override")

	// ErrStartingReportEmpty is returned when a starting report matches no pivot row
	ErrStartingReportEmpty = errors.New("starting report matches no pivot rows")

	// ErrComponentMappingNotFound is returned when a main component has no registered mapping
	ErrComponentMappingNotFound = errors.New("component mapping not found")

	// ErrInvalidInput is returned when a request or table fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrRunNotFound is returned when a reconciliation run does not exist
	ErrRunNotFound = errors.New("reconciliation run not found")
)

// IntegrityKind names the kind of data integrity failure
type IntegrityKind string

const (
	IntegrityMissingPairedArrival   IntegrityKind = "missing_paired_arrival"
	IntegrityCrossBodyInPlaceRepair IntegrityKind = "cross_body_in_place_repair"
)

// DataIntegrityError is a fatal contradiction found in the input tables
type DataIntegrityError struct {
	Kind            IntegrityKind
	PartOfInterest  string
	ComponentSerial string
	ServiceOrder    int64
	PartName        string
	SubpartName     string
	Detail          string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity error (%s): part=%s component_serial=%s service_order=%d part_name=%s subpart_name=%s: %s",
		e.Kind, e.PartOfInterest, e.ComponentSerial, e.ServiceOrder, e.PartName, e.SubpartName, e.Detail)
}

// Unwrap returns the sentinel error of the integrity kind
func (e *DataIntegrityError) Unwrap() error {
	switch e.Kind {
	case IntegrityMissingPairedArrival:
		return ErrMissingPairedArrival
	case IntegrityCrossBodyInPlaceRepair:
		return ErrCrossBodyInPlaceRepair
	default:
		return nil
	}
}
