// Package override applies manual corrections to the part pivot.
package override

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cecilvega/kverse-sub000/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateOverrideKeys, domain.PartOverride{})
}

// validateOverrideKeys rejects overrides that would match every pivot row
func validateOverrideKeys(sl validator.StructLevel) {
	o := sl.Current().Interface().(domain.PartOverride)
	if o.ComponentSerial == nil && o.ServiceOrder == nil && o.SubpartName == nil && o.PartName == nil {
		sl.ReportError(o.ComponentSerial, "ComponentSerial", "component_serial", "override_key", "")
	}
}

// appendedRow lists what an unmatched override must carry to become a pivot row
type appendedRow struct {
	ComponentSerial *string    `validate:"required"`
	ServiceOrder    *int64     `validate:"required"`
	SubpartName     *string    `validate:"required"`
	PartName        *string    `validate:"required"`
	ReceptionDate   *time.Time `validate:"required"`
}

// Validate checks that every override names at least one key
func Validate(overrides []domain.PartOverride) error {
	for i, o := range overrides {
		if err := validate.Struct(o); err != nil {
			return fmt.Errorf("override %d has no key: %w", i, domain.ErrInvalidOverride)
		}
	}
	return nil
}

// Apply patches the pivot with the overrides in order.
// Every pivot row matching the non-null keys of an override takes its non-null fields.
// An override that matches nothing is appended as a new row.
func Apply(pivot []domain.PartPivotRow, overrides []domain.PartOverride) ([]domain.PartPivotRow, error) {
	if err := Validate(overrides); err != nil {
		return nil, err
	}

	out := make([]domain.PartPivotRow, len(pivot), len(pivot)+len(overrides))
	copy(out, pivot)

	for i, o := range overrides {
		matched := false
		for j := range out {
			if matches(out[j], o) {
				out[j] = patch(out[j], o)
				matched = true
			}
		}
		if matched {
			continue
		}

		row := appendedRow{
			ComponentSerial: o.ComponentSerial,
			ServiceOrder:    o.ServiceOrder,
			SubpartName:     o.SubpartName,
			PartName:        o.PartName,
			ReceptionDate:   o.ReceptionDate,
		}
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("override %d matches no pivot row and is incomplete: %w", i, domain.ErrInvalidOverride)
		}
		out = append(out, patch(domain.PartPivotRow{}, o))
	}

	return out, nil
}

func matches(row domain.PartPivotRow, o domain.PartOverride) bool {
	if o.ComponentSerial != nil && *o.ComponentSerial != row.ComponentSerial {
		return false
	}
	if o.ServiceOrder != nil && *o.ServiceOrder != row.ServiceOrder {
		return false
	}
	if o.SubpartName != nil && *o.SubpartName != row.SubpartName {
		return false
	}
	if o.PartName != nil && *o.PartName != row.PartName {
		return false
	}
	return true
}

func patch(row domain.PartPivotRow, o domain.PartOverride) domain.PartPivotRow {
	if o.ComponentSerial != nil {
		row.ComponentSerial = *o.ComponentSerial
	}
	if o.ServiceOrder != nil {
		row.ServiceOrder = *o.ServiceOrder
	}
	if o.SubpartName != nil {
		row.SubpartName = *o.SubpartName
	}
	if o.PartName != nil {
		row.PartName = *o.PartName
	}
	if o.ReceptionDate != nil {
		row.ReceptionDate = *o.ReceptionDate
	}
	if o.SubcomponentTag != nil {
		row.SubcomponentTag = *o.SubcomponentTag
	}
	if o.InitialPartSerial != nil {
		v := *o.InitialPartSerial
		row.InitialPartSerial = &v
	}
	if o.FinalPartSerial != nil {
		v := *o.FinalPartSerial
		row.FinalPartSerial = &v
	}
	if o.ComponentHours != nil {
		v := *o.ComponentHours
		row.ComponentHours = &v
	}
	if o.Retrofit != nil {
		row.Retrofit = *o.Retrofit
	}
	return row
}
