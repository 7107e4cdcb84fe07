package ingest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// report json column names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// null optional columns validate as empty, so omitempty skips them
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if n, ok := v.Interface().(models.NullInt); ok && n.Valid {
			return n.Value
		}
		return nil
	}, models.NullInt{})
}

// Struct applies default tags then validate tags to one record. A failed
// "required" rule becomes a MissingColumnError, anything else an InvalidValueError.
func Struct(ctx context.Context, table string, row int, rec interface{}) error {
	if err := defaults.Set(rec); err != nil {
		return fmt.Errorf("%s: defaults: %w", table, err)
	}
	if err := validate.StructCtx(ctx, rec); err != nil {
		return toRecordError(table, row, err)
	}
	return nil
}

func toRecordError(table string, row int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidValueError{Table: table, Row: row, Message: err.Error(), Err: err}
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return &MissingColumnError{Table: table, Column: fe.Field(), Row: row}
	}
	return &InvalidValueError{
		Table:   table,
		Column:  fe.Field(),
		Row:     row,
		Message: errorMessage(fe),
	}
}

func errorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "min":
		if fe.Type().Kind() == reflect.String || isStringPtr(fe.Type()) {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func isStringPtr(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.String
}
