package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

// FormState owns the step index, the draft values and the visible field errors.
// Validation plus transition happens under one lock so concurrent advance calls
// never race the same validation run.
type FormState struct {
	mu        sync.Mutex
	validator *domain.Validator
	step      domain.Step
	values    domain.Values
	errors    domain.FieldErrors
}

// FormSnapshot is a copy of the form state.
type FormSnapshot struct {
	Step   domain.Step
	Values domain.Values
	Errors domain.FieldErrors
}

// NewFormState starts a form on the first step with default values.
func NewFormState(validator *domain.Validator) *FormState {
	if validator == nil {
		validator = domain.NewValidator()
	}
	return &FormState{
		validator: validator,
		step:      domain.FirstStep,
		values:    domain.DefaultValues(),
		errors:    domain.FieldErrors{},
	}
}

// Snapshot returns a copy of the current state.
func (f *FormState) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormSnapshot{Step: f.step, Values: f.values, Errors: f.errors.Clone()}
}

// Step returns the active step.
func (f *FormState) Step() domain.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Values returns a copy of the draft values.
func (f *FormState) Values() domain.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Advance validates the active step. On success every field error is cleared and
// the step moves forward, capped at the last step. On failure the step is unchanged
// and the step's field errors are returned.
func (f *FormState) Advance() (domain.Step, domain.FieldErrors) {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := f.validator.ValidateStep(f.step, f.values)
	if !errs.Empty() {
		f.errors = errs
		return f.step, errs.Clone()
	}
	f.errors = domain.FieldErrors{}
	if f.step < domain.LastStep {
		f.step++
	}
	return f.step, nil
}

// Retreat moves one step back, floored at the first step. It never validates.
func (f *FormState) Retreat() domain.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > domain.FirstStep {
		f.step--
	}
	return f.step
}

// ResetStep returns to the first step while keeping the entered values.
func (f *FormState) ResetStep() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = domain.FirstStep
}

// ValidateAll checks the complete draft and surfaces the resulting errors.
func (f *FormState) ValidateAll() (domain.Values, domain.FieldErrors) {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := f.validator.ValidateAll(f.values)
	f.errors = errs
	return f.values, errs.Clone()
}

// SetNewBreed flips the breed toggle and clears the breed field that became inactive.
func (f *FormState) SetNewBreed(isNew bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.IsNewBreed = isNew
	f.values.NormalizeBreed()
}

// ApplyAddress writes a selected suggestion into the address block.
// City is only overwritten when the address yields a first token.
func (f *FormState) ApplyAddress(s domain.AddressSuggestion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Address1 = s.Address
	if city := s.City(); city != "" {
		f.values.City = city
	}
	f.values.Longitude = cloneFloat(s.X)
	f.values.Latitude = cloneFloat(s.Y)
	delete(f.errors, "address1")
	delete(f.errors, "city")
}

// Patch merges a JSON object of field changes into the values. A null clears an
// optional field. Unknown fields and mistyped values are rejected as field errors
// without modifying the draft. The inactive breed field is always cleared.
func (f *FormState) Patch(raw []byte) error {
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(raw, &changes); err != nil {
		return fmt.Errorf("%w: patch must be a JSON object: %v", ErrInvalidInput, err)
	}
	unknown := domain.FieldErrors{}
	for key := range changes {
		if !domain.IsField(key) {
			unknown[key] = domain.ErrUnknownField.Error()
		}
	}
	if !unknown.Empty() {
		return newValidationError(unknown)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := json.Marshal(f.values)
	if err != nil {
		return err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for key, value := range changes {
		merged[key] = value
	}
	buf, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	var next domain.Values
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return newValidationError(domain.FieldErrors{typeErr.Field: fmt.Sprintf("%s must be a %s", typeErr.Field, kindName(typeErr.Type))})
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	next.NormalizeBreed()
	f.values = next
	for key := range changes {
		delete(f.errors, key)
	}
	return nil
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Float64, reflect.Ptr:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
