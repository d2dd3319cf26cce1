package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the validate tags of body, or of every element when body is
// a slice. The error names the first offending field by its JSON path.
func Validate(body any) error {
	rv := reflect.Indirect(reflect.ValueOf(body))
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if err := validate.Struct(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %s", i, describe(err))
			}
		}
		return nil
	}

	if err := validate.Struct(body); err != nil {
		return errors.New(describe(err))
	}
	return nil
}

func describe(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return "invalid request"
	}

	fe := fields[0]
	ns := fe.Namespace()
	// Drop the Go type name prefix.
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}

	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", ns, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", ns, fe.Tag())
}
