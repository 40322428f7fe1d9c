package domain

import (
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("district", func(fl validator.FieldLevel) bool {
		return slices.Contains(Districts, fl.Field().String())
	})
	_ = v.RegisterValidation("roomtype", func(fl validator.FieldLevel) bool {
		return slices.Contains(RoomTypes, RoomType(fl.Field().String()))
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// messages mirror the admin form wording; keys are field or field.tag.
var messages = map[string]string{
	"name":               "Hostel name is required",
	"name.max":           "Hostel name is too long",
	"location":           "Location is required",
	"location.district":  "Location must be one of " + strings.Join(Districts, ", "),
	"address":            "Address is required",
	"address.max":        "Address is too long",
	"price":              "Price must be greater than 0",
	"price.lte":          "Price is too large",
	"type":               "Hostel type is required",
	"type.roomtype":      "Hostel type must be one of Private, Shared, Dormitory, Single",
	"description":        "Description is required",
	"amenities":          "Amenities must be non-empty labels of at most 64 characters",
	"images":             "Images must be non-empty URLs",
	"contactEmail":       "Contact email is required",
	"contactEmail.email": "Contact email is invalid",
	"contactPhone":       "Contact phone is too long",
	"checkInTime":        "Check-in time must be HH:MM",
	"checkOutTime":       "Check-out time must be HH:MM",
	"capacity":           "Capacity must be greater than 0",
	"rating":             "Rating must be between 0 and 5",
	"reviews":            "Reviews must not be negative",
}

// Validate applies the listing rules shared by the API client and the
// write handlers. It returns *ValidationError or nil.
func (in HostelInput) Validate() error {
	return check(in)
}

func (r SeedRecord) Validate() error {
	return check(r)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if _, seen := out.Fields[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = "is invalid"
		}
		out.Fields[field] = msg
	}
	return out
}
