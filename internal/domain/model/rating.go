package model

import (
	"math"
	"strconv"
	"strings"
)

// Границы рейтинга (включительно).
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// ParseRating разбирает рейтинг из строки. Некорректная строка даёт NaN.
func ParseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ValidStatus сообщает, что статус — одно из двух допустимых значений.
func ValidStatus(s string) bool {
	return s == StatusOpenNow || s == StatusClosed
}
