package goldbook

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidForm is wrapped by every validation failure.
var ErrInvalidForm = errors.New("invalid form")

// EntryForm is an entry as typed by a user, the date in the display calendar.
type EntryForm struct {
	CustomerID  int64     `validate:"required,gt=0"`
	Date        string    `validate:"required"`
	Description string    `validate:"max=500"`
	Received    Quantity  `validate:"gte=0"`
	Paid        Quantity  `validate:"gte=0"`
	Carat       *Quantity // gold only, optional.
}

// CapitalForm is a capital record as typed by a user.
type CapitalForm struct {
	USD  Quantity `validate:"gte=0"`
	Gold Quantity `validate:"gte=0"`
	Date string   `validate:"required"`
}

// CustomerForm is a new customer as typed by a user.
type CustomerForm struct {
	Name  string `validate:"required,max=120"`
	Phone string `validate:"omitempty,max=32"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator. Quantities are validated
// through their float value.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			q, ok := v.Interface().(Quantity)
			if !ok {
				return nil
			}
			return q.Float()
		}, Quantity{})
	})
	return validate
}

// validateForm validates a form struct and turns validator errors into a
// readable error wrapping ErrInvalidForm.
func validateForm(form any) error {
	err := validatorInstance().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, describe(verrs))
}

// describe lists failing fields with their validation tag, sorted by field.
func describe(verrs validator.ValidationErrors) string {
	fields := make(map[string]string, len(verrs))
	for _, ve := range verrs {
		tag := ve.Tag()
		if ve.Param() != "" {
			tag += "=" + ve.Param()
		}
		fields[ve.Field()] = tag
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s must satisfy %q", name, fields[name]))
	}
	return strings.Join(parts, ", ")
}

// Validate checks the form for unit. At least one of received or paid must
// be non zero, and the carat is only meaningful on the gold ledger.
func (f EntryForm) Validate(unit Unit) error {
	if err := validateForm(f); err != nil {
		return err
	}
	if f.Received.IsZero() && f.Paid.IsZero() {
		return fmt.Errorf("%w: one of Received or Paid must be non zero", ErrInvalidForm)
	}
	if f.Carat != nil {
		if unit != Gold {
			return fmt.Errorf("%w: Carat only applies to gold entries", ErrInvalidForm)
		}
		if !f.Carat.IsPositive() {
			return fmt.Errorf("%w: Carat must be positive", ErrInvalidForm)
		}
	}
	return nil
}

// Validate checks the capital form.
func (f CapitalForm) Validate() error { return validateForm(f) }

// Validate checks the customer form.
func (f CustomerForm) Validate() error { return validateForm(f) }
