package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/shopspring/decimal"
)

// Perfect Money wallets are a currency letter followed by digits, e.g. U1234567
var walletPattern = regexp.MustCompile(`^[UEGB]\d{7,}$`)

var currencies = map[string]bool{"USD": true, "EUR": true, "OAU": true, "BTC": true}

// CustomValidate registers the project specific tags on the shared validator
func CustomValidate() {
	v := config.App().Validator

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("pm_wallet", func(fl validator.FieldLevel) bool {
		return walletPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("pm_currency", func(fl validator.FieldLevel) bool {
		return currencies[fl.Field().String()]
	})

	// decimal_gt0 accepts a positive decimal given as a string
	_ = v.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
}

// Error lists the request fields that failed validation
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates s with the shared validator. Field failures are
// returned as *Error keyed by JSON field name.
func Struct(s any) error {
	err := config.App().Validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "pm_wallet":
		return "must be a Perfect Money wallet (e.g. U1234567)"
	case "pm_currency":
		return "must be one of USD, EUR, OAU, BTC"
	case "decimal_gt0":
		return "must be a positive decimal"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed on '" + fe.Tag() + "'"
	}
}
