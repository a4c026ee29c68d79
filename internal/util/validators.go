package util

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidateFutureDate 验证日期是否在未来
func ValidateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}

// ValidateDiscountPercent 验证折扣百分比在 (0, 100] 范围内
func ValidateDiscountPercent(fl validator.FieldLevel) bool {
	percent := fl.Field().Int()
	return percent > 0 && percent <= 100
}
