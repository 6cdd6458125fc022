package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"tablebook/shared/failure"

	"github.com/gabriel-vasile/mimetype"
	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// registerMimetypeValidation sniffs the uploaded content instead of trusting
// the client supplied Content-Type.
func registerMimetypeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	content, err := file.Open()
	if err != nil {
		return false
	}
	defer content.Close()

	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return false
	}

	return slices.ContainsFunc(strings.Split(field.Param(), " "), detected.Is)
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	fileSize := 0
	if file, ok := field.Field().Interface().(multipart.FileHeader); ok {
		fileSize = int(file.Size)
	} else if str, ok := field.Field().Interface().(string); ok {
		fileSize = len(str)
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0
	maxSizeBytes := int(maxSizeMB * bytesConversion * bytesConversion)

	return fileSize <= maxSizeBytes
}

// Validatable lets a type own its rule behind the "validatable" tag.
type Validatable interface {
	Validate() error
}

func validatable(field val.FieldLevel) bool {
	if !field.Field().CanInterface() {
		return false
	}

	v, ok := field.Field().Interface().(Validatable)

	return ok && v.Validate() == nil
}

// jsonName reports fields by their wire name so messages match the payload.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	custom := map[string]val.Func{
		"validatable": validatable,
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it. Both malformed
// JSON and rule violations are reported as 400.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
