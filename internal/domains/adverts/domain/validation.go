package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Clone returns an independent copy.
func (f FieldErrors) Clone() FieldErrors {
	if f == nil {
		return nil
	}
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

var fieldMessages = map[string]string{
	"petCategoryKey": "Select a category",
	"name":           "Pet name is required",
	"sex":            "Select sex",
	"age":            "Age must be between 0 and 600 months",
	"weight":         "Weight must be between 0 and 200",
	"title":          "Title is too short",
	"description":    "Description is too short",
	"phone":          "Phone is required",
	"address1":       "Address is required",
	"city":           "City is required",
	"state":          "State is required",
	"country":        "Country is required",
	"pincode":        "Pincode is required",
	"latitude":       "Latitude must be between -90 and 90",
	"longitude":      "Longitude must be between -180 and 180",
	"price":          "Price must not be negative",
	"currency":       "Select currency",
	"postType":       "Select a post type",
}

// Step field subsets use Go field names as StructPartial expects.
var (
	stepPetFields     = []string{"PetCategoryKey", "Name", "Sex", "Age", "Weight", "IsVaccinationDone", "KnowEssentialCommands"}
	stepBreedFields   = []string{"IsNewBreed", "PetBreed", "NewBreedName"}
	stepDetailsFields = []string{"Title", "Description", "Phone", "PostType", "Address1", "City", "State", "Country", "Pincode"}
	sellFields        = []string{"Price", "Currency"}
)

// Validator checks advert values per step or as a whole.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator that reports errors under JSON field names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validate: v}
}

// ValidateStep checks only the fields owned by step.
func (v *Validator) ValidateStep(step Step, values Values) FieldErrors {
	errs := FieldErrors{}
	switch step {
	case StepPet:
		v.partial(values, stepPetFields, errs)
	case StepBreed:
		v.partial(values, stepBreedFields, errs)
		breedRule(values, errs)
	case StepDetails:
		fields := stepDetailsFields
		if values.IsSell() {
			fields = append(append([]string{}, stepDetailsFields...), sellFields...)
		}
		v.partial(values, fields, errs)
		if values.IsSell() {
			sellRule(values, errs)
		}
	}
	return errs
}

// ValidateAll checks every field plus the cross-field rules.
func (v *Validator) ValidateAll(values Values) FieldErrors {
	errs := FieldErrors{}
	collect(v.validate.Struct(values), errs)
	breedRule(values, errs)
	if values.IsSell() {
		sellRule(values, errs)
	}
	return errs
}

func (v *Validator) partial(values Values, fields []string, errs FieldErrors) {
	collect(v.validate.StructPartial(values, fields...), errs)
}

func collect(err error, errs FieldErrors) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, exists := errs[field]; exists {
			continue
		}
		if msg, ok := fieldMessages[field]; ok {
			errs[field] = msg
			continue
		}
		errs[field] = fe.Error()
	}
}

func breedRule(values Values, errs FieldErrors) {
	if values.IsNewBreed {
		if len([]rune(strings.TrimSpace(values.NewBreedName))) < 2 {
			errs["newBreedName"] = "Enter new breed name"
		}
		return
	}
	if strings.TrimSpace(values.PetBreed) == "" {
		errs["petBreed"] = "Select a breed"
	}
}

func sellRule(values Values, errs FieldErrors) {
	if values.Price == nil || *values.Price <= 0 {
		errs["price"] = "Enter a valid price"
	}
	if strings.TrimSpace(values.Currency) == "" {
		errs["currency"] = "Select currency"
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

var fieldNames = func() map[string]struct{} {
	names := map[string]struct{}{}
	t := reflect.TypeOf(Values{})
	for i := 0; i < t.NumField(); i++ {
		names[jsonFieldName(t.Field(i))] = struct{}{}
	}
	return names
}()

// IsField reports whether name is a known JSON field of Values.
func IsField(name string) bool {
	_, ok := fieldNames[name]
	return ok
}
