// Пакет model — доменные модели FoodWagen.
// Food — каноническая запись блюда, с которой работает весь сервис.
// FoodDraft — частичная запись из формы UI (create/edit).
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Допустимые значения статуса ресторана.
const (
	StatusOpenNow = "Open Now"
	StatusClosed  = "Closed"
)

// DefaultPrice — цена по умолчанию, если поле не задано.
const DefaultPrice = "0.00"

// Food — каноническая запись блюда.
type Food struct {
	// ID — идентификатор, назначается внешним сервисом; не меняется после создания
	ID string `json:"id"`
	// FoodName — название блюда
	FoodName string `json:"food_name"`
	// FoodRating — рейтинг блюда, диапазон [1, 5]
	FoodRating float64 `json:"food_rating"`
	// FoodImage — URL изображения блюда
	FoodImage string `json:"food_image"`
	// RestaurantName — название ресторана
	RestaurantName string `json:"restaurant_name"`
	// RestaurantImage — URL логотипа ресторана
	RestaurantImage string `json:"restaurant_image"`
	// RestaurantStatus — "Open Now" или "Closed"
	RestaurantStatus string `json:"restaurant_status"`
	// Price — цена в десятичном строковом формате
	Price string `json:"Price"`
}

// FoodDraft — частичная запись блюда. nil означает «поле не передано».
// RestaurantLogo — синоним RestaurantImage (старое имя поля в формах UI).
type FoodDraft struct {
	FoodName         *string  `json:"food_name,omitempty"`
	FoodRating       *float64 `json:"food_rating,omitempty"`
	FoodImage        *string  `json:"food_image,omitempty"`
	RestaurantName   *string  `json:"restaurant_name,omitempty"`
	RestaurantImage  *string  `json:"restaurant_image,omitempty"`
	RestaurantLogo   *string  `json:"restaurant_logo,omitempty"`
	RestaurantStatus *string  `json:"restaurant_status,omitempty"`
	Price            *string  `json:"Price,omitempty"`
}

// Logo возвращает URL логотипа с учётом синонима: непустой restaurant_image
// приоритетнее restaurant_logo; пустой restaurant_image уступает синониму.
func (d FoodDraft) Logo() *string {
	if d.RestaurantImage != nil && strings.TrimSpace(*d.RestaurantImage) != "" {
		return d.RestaurantImage
	}
	if d.RestaurantLogo != nil {
		return d.RestaurantLogo
	}
	return d.RestaurantImage
}

// IsEmpty сообщает, что в черновике не передано ни одного поля.
func (d FoodDraft) IsEmpty() bool {
	return d.FoodName == nil && d.FoodRating == nil && d.FoodImage == nil &&
		d.RestaurantName == nil && d.Logo() == nil && d.RestaurantStatus == nil && d.Price == nil
}

// Merge возвращает черновик, в котором поля base перекрыты переданными полями d.
func (d FoodDraft) Merge(base Food) FoodDraft {
	merged := DraftOf(base)
	if d.FoodName != nil {
		merged.FoodName = d.FoodName
	}
	if d.FoodRating != nil {
		merged.FoodRating = d.FoodRating
	}
	if d.FoodImage != nil {
		merged.FoodImage = d.FoodImage
	}
	if d.RestaurantName != nil {
		merged.RestaurantName = d.RestaurantName
	}
	if logo := d.Logo(); logo != nil {
		merged.RestaurantImage = logo
	}
	if d.RestaurantStatus != nil {
		merged.RestaurantStatus = d.RestaurantStatus
	}
	if d.Price != nil {
		merged.Price = d.Price
	}
	return merged
}

// Apply накладывает переданные поля черновика на запись f.
func (d FoodDraft) Apply(f Food) Food {
	if d.FoodName != nil {
		f.FoodName = *d.FoodName
	}
	if d.FoodRating != nil {
		f.FoodRating = *d.FoodRating
	}
	if d.FoodImage != nil {
		f.FoodImage = *d.FoodImage
	}
	if d.RestaurantName != nil {
		f.RestaurantName = *d.RestaurantName
	}
	if logo := d.Logo(); logo != nil {
		f.RestaurantImage = *logo
	}
	if d.RestaurantStatus != nil {
		f.RestaurantStatus = *d.RestaurantStatus
	}
	if d.Price != nil {
		f.Price = *d.Price
	}
	return f
}

// Food собирает запись из черновика; непереданные поля остаются нулевыми.
func (d FoodDraft) Food() Food {
	return d.Apply(Food{})
}

// DraftOf возвращает полностью заполненный черновик из записи.
func DraftOf(f Food) FoodDraft {
	return FoodDraft{
		FoodName:         &f.FoodName,
		FoodRating:       &f.FoodRating,
		FoodImage:        &f.FoodImage,
		RestaurantName:   &f.RestaurantName,
		RestaurantImage:  &f.RestaurantImage,
		RestaurantStatus: &f.RestaurantStatus,
		Price:            &f.Price,
	}
}

// UnmarshalJSON разбирает черновик из формы UI. food_rating принимает
// как число, так и строку ("4.5"): поле формы приходит строкой.
// Нечисловая строка сохраняется как NaN, чтобы валидатор вернул ошибку поля.
func (d *FoodDraft) UnmarshalJSON(data []byte) error {
	type plain FoodDraft
	var aux struct {
		plain
		FoodRating json.RawMessage `json:"food_rating,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = FoodDraft(aux.plain)
	d.FoodRating = nil

	raw := bytes.TrimSpace(aux.FoodRating)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		d.FoodRating = &num
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	rating := ParseRating(s)
	d.FoodRating = &rating
	return nil
}

// Ptr возвращает указатель на значение (удобно для сборки черновиков).
func Ptr[T any](v T) *T {
	return &v
}
