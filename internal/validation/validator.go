package validation

import (
	"math"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// TaxRateRule bounds the accepted iva, both ends inclusive.
type TaxRateRule struct {
	Min float64
	Max float64
}

// DefaultTaxRateRule accepts rates from 0 to 1.
var DefaultTaxRateRule = TaxRateRule{Min: 0, Max: 1}

func (r TaxRateRule) Allows(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// New returns a configured validator with the "taxrate" and "notblank" rules
// registered.
// Field names in errors follow the json tags.
func New(rule TaxRateRule) *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("taxrate", func(fl validatorv10.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			return rule.Allows(f.Float())
		}
		return false
	})

	_ = v.RegisterValidation("notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}
