// Package validator wraps go-playground/validator with the two custom
// tags the query boundary needs: "longitude" and "latitude". Grounded on
// the teacher's wrapper plus the latitude/longitude validators from
// Bwise1-waze_kibris_api/util/validator.go.
package validator

import "github.com/go-playground/validator/v10"

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("latitude", validateLatitude)
	_ = validate.RegisterValidation("longitude", validateLongitude)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180 && lon <= 180
}

// Validate runs struct-tag validation over s.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator exposes the shared *validator.Validate for custom registration.
func GetValidator() *validator.Validate {
	return validate
}
