// Пакет validation — проверка черновика записи перед create/update.
// Все правила проверяются независимо; результат — карта «поле → сообщение».
package validation

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bigkaa/foodwagen/internal/domain/model"
)

// Ключи полей в карте ошибок.
const (
	FieldFoodName         = "food_name"
	FieldFoodRating       = "food_rating"
	FieldFoodImage        = "food_image"
	FieldRestaurantName   = "restaurant_name"
	FieldRestaurantImage  = "restaurant_image"
	FieldRestaurantStatus = "restaurant_status"
	FieldPrice            = "Price"
)

// Сообщения об ошибках (показываются в UI рядом с полем).
const (
	MsgFoodNameRequired        = "Food Name is required"
	MsgFoodRatingNotNumber     = "Food Rating must be a number"
	MsgFoodRatingRange         = "Food Rating must be between 1 and 5"
	MsgFoodImageRequired       = "Food Image URL is required"
	MsgFoodImageInvalid        = "Food Image URL must be a valid URL"
	MsgRestaurantNameRequired  = "Restaurant Name is required"
	MsgRestaurantImageRequired = "Restaurant Logo URL is required"
	MsgRestaurantImageInvalid  = "Restaurant Logo URL must be a valid URL"
	MsgRestaurantStatus        = "Restaurant Status must be 'Open Now' or 'Closed'"
	MsgPriceRequired           = "Price is required"
	MsgPriceInvalid            = "Price must be a valid number"
)

// Errors — ошибки валидации по полям. Отсутствие ключа — поле корректно.
type Errors map[string]string

// Valid сообщает, что ошибок нет.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Keys возвращает отсортированный список полей с ошибками.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate проверяет черновик. Пустая карта — запись можно отправлять.
// Логотип ресторана принимается под любым из имён (restaurant_image / restaurant_logo),
// ошибка всегда возвращается под ключом restaurant_image.
func Validate(d model.FoodDraft) Errors {
	errs := Errors{}

	if blank(d.FoodName) {
		errs[FieldFoodName] = MsgFoodNameRequired
	}

	switch {
	case d.FoodRating == nil || math.IsNaN(*d.FoodRating):
		errs[FieldFoodRating] = MsgFoodRatingNotNumber
	case *d.FoodRating < model.MinRating || *d.FoodRating > model.MaxRating:
		errs[FieldFoodRating] = MsgFoodRatingRange
	}

	switch {
	case blank(d.FoodImage):
		errs[FieldFoodImage] = MsgFoodImageRequired
	case !IsValidURL(*d.FoodImage):
		errs[FieldFoodImage] = MsgFoodImageInvalid
	}

	if blank(d.RestaurantName) {
		errs[FieldRestaurantName] = MsgRestaurantNameRequired
	}

	logo := d.Logo()
	switch {
	case blank(logo):
		errs[FieldRestaurantImage] = MsgRestaurantImageRequired
	case !IsValidURL(*logo):
		errs[FieldRestaurantImage] = MsgRestaurantImageInvalid
	}

	if d.RestaurantStatus == nil || !model.ValidStatus(*d.RestaurantStatus) {
		errs[FieldRestaurantStatus] = MsgRestaurantStatus
	}

	switch {
	case blank(d.Price):
		errs[FieldPrice] = MsgPriceRequired
	case !isDecimal(*d.Price):
		errs[FieldPrice] = MsgPriceInvalid
	}

	return errs
}

// IsValidURL проверяет, что строка — абсолютный URL со схемой
// (https://x.com/a.png, data:image/png;base64,...).
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// decimalPattern — только десятичная запись: без экспоненты, hex, NaN и Inf.
var decimalPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

func isDecimal(s string) bool {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}
