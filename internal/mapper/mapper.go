// Пакет mapper — двусторонний маппинг между внешним форматом Food API
// и канонической записью model.Food.
//
// Внешний сервис возвращает одно и то же поле под разными именами
// (name/food_name, image/food_image/avatar, restaurant.name и т.д.).
// Для каждого канонического поля задан упорядоченный список синонимов:
// берётся первое непустое значение, иначе — fallback (placeholder).
package mapper

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bigkaa/foodwagen/internal/domain/model"
)

// Placeholder-значения для отсутствующих полей.
const (
	PlaceholderFoodName       = "Unknown Food"
	PlaceholderRestaurantName = "Unknown Restaurant"
	PlaceholderFoodImage      = "/placeholder-food.jpg"
	PlaceholderRestaurantLogo = "/placeholder-restaurant.jpg"
)

// Значения статуса во внешнем формате.
const (
	ExternalOpen   = "Open"
	ExternalClosed = "Closed"
)

// External — запись во внешнем (нестабильном) формате Food API.
type External map[string]any

// Payload — тело create/update запроса в словаре внешнего сервиса.
// nil-поля не сериализуются (partial update).
type Payload struct {
	Name           *string  `json:"name,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	Image          *string  `json:"image,omitempty"`
	RestaurantName *string  `json:"restaurantName,omitempty"`
	Logo           *string  `json:"logo,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Price          *string  `json:"Price,omitempty"`
}

// path — путь к значению во внешней записи: "name" или "restaurant", "name".
type path []string

// Таблица синонимов: порядок элементов — приоритет.
var (
	idPaths             = []path{{"id"}}
	foodNamePaths       = []path{{"name"}, {"food_name"}}
	ratingPaths         = []path{{"rating"}, {"food_rating"}}
	foodImagePaths      = []path{{"image"}, {"food_image"}, {"avatar"}}
	restaurantNamePaths = []path{{"restaurantName"}, {"restaurant_name"}, {"restaurant", "name"}}
	restaurantLogoPaths = []path{{"logo"}, {"restaurant_image"}, {"restaurant", "logo"}}
	pricePaths          = []path{{"Price"}, {"price"}}
)

// Placeholders возвращает запись, полностью состоящую из placeholder-значений.
func Placeholders() model.Food {
	return model.Food{
		FoodName:         PlaceholderFoodName,
		FoodRating:       0,
		FoodImage:        PlaceholderFoodImage,
		RestaurantName:   PlaceholderRestaurantName,
		RestaurantImage:  PlaceholderRestaurantLogo,
		RestaurantStatus: model.StatusClosed,
		Price:            model.DefaultPrice,
	}
}

// ToCanonical преобразует внешнюю запись в каноническую.
// Отсутствующие поля заменяются placeholder-значениями, ошибок не бывает.
func ToCanonical(ext External) model.Food {
	return canonical(ext, Placeholders())
}

// ToCanonicalWithFallback — как ToCanonical, но значение по умолчанию
// для каждого поля берётся из fallback (ответы create/update).
// Нулевой рейтинг в ответе считается отсутствующим, если в fallback он задан.
func ToCanonicalWithFallback(ext External, fallback model.Food) model.Food {
	f := canonical(ext, fallback)
	if f.FoodRating == 0 {
		f.FoodRating = fallback.FoodRating
	}
	return f
}

func canonical(ext External, fallback model.Food) model.Food {
	return model.Food{
		ID:               firstString(ext, idPaths, fallback.ID),
		FoodName:         firstString(ext, foodNamePaths, fallback.FoodName),
		FoodRating:       firstNumber(ext, ratingPaths, fallback.FoodRating),
		FoodImage:        firstString(ext, foodImagePaths, fallback.FoodImage),
		RestaurantName:   firstString(ext, restaurantNamePaths, fallback.RestaurantName),
		RestaurantImage:  firstString(ext, restaurantLogoPaths, fallback.RestaurantImage),
		RestaurantStatus: resolveStatus(ext, fallback.RestaurantStatus),
		Price:            firstPrice(ext, pricePaths, fallback.Price),
	}
}

// ToExternal преобразует черновик в тело запроса внешнего сервиса.
// partial=true — непереданные поля опускаются (update трогает только их);
// partial=false — заполняются все поля, отсутствующие получают значения по умолчанию.
func ToExternal(d model.FoodDraft, partial bool) Payload {
	if partial {
		p := Payload{
			Name:           d.FoodName,
			Rating:         d.FoodRating,
			Image:          d.FoodImage,
			RestaurantName: d.RestaurantName,
			Logo:           d.Logo(),
			Price:          d.Price,
		}
		if d.RestaurantStatus != nil {
			p.Status = model.Ptr(StatusToExternal(*d.RestaurantStatus))
		}
		return p
	}

	f := d.Food()
	if d.Price == nil {
		f.Price = model.DefaultPrice
	}
	return Payload{
		Name:           model.Ptr(f.FoodName),
		Rating:         model.Ptr(f.FoodRating),
		Image:          model.Ptr(f.FoodImage),
		RestaurantName: model.Ptr(f.RestaurantName),
		Logo:           model.Ptr(f.RestaurantImage),
		Status:         model.Ptr(StatusToExternal(f.RestaurantStatus)),
		Price:          model.Ptr(f.Price),
	}
}

// StatusToExternal: "Open Now" → "Open", всё остальное → "Closed".
func StatusToExternal(status string) string {
	if status == model.StatusOpenNow {
		return ExternalOpen
	}
	return ExternalClosed
}

// StatusFromExternal: "Open" → "Open Now", "Closed" → "Closed", иначе ("", false).
func StatusFromExternal(status string) (string, bool) {
	switch status {
	case ExternalOpen:
		return model.StatusOpenNow, true
	case ExternalClosed:
		return model.StatusClosed, true
	default:
		return "", false
	}
}

// resolveStatus нормализует статус ресторана:
// status="Open" или open=true → "Open Now";
// status="Closed" или open=false → "Closed";
// иначе restaurant_status как есть, иначе fallback, иначе "Closed".
func resolveStatus(ext External, fallback string) string {
	status, _ := lookup(ext, path{"status"}).(string)
	open, hasOpen := lookup(ext, path{"open"}).(bool)

	if status == ExternalOpen || (hasOpen && open) {
		return model.StatusOpenNow
	}
	if status == ExternalClosed || (hasOpen && !open) {
		return model.StatusClosed
	}
	if s, ok := lookup(ext, path{"restaurant_status"}).(string); ok && s != "" {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return model.StatusClosed
}

// lookup возвращает значение по пути или nil.
func lookup(ext External, p path) any {
	var cur any = map[string]any(ext)
	for _, key := range p {
		var obj map[string]any
		switch v := cur.(type) {
		case map[string]any:
			obj = v
		case External:
			obj = v
		default:
			return nil
		}
		next, ok := obj[key]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// firstString возвращает первое непустое строковое значение из списка путей.
// Числа (например, числовой id) форматируются в строку.
func firstString(ext External, paths []path, fallback string) string {
	for _, p := range paths {
		switch v := lookup(ext, p).(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return fallback
}

// firstNumber возвращает первое числовое значение; числовые строки допускаются.
func firstNumber(ext External, paths []path, fallback float64) float64 {
	for _, p := range paths {
		switch v := lookup(ext, p).(type) {
		case float64:
			if !math.IsNaN(v) {
				return v
			}
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	}
	return fallback
}

// firstPrice возвращает цену как строку; числовая цена форматируется с двумя знаками.
func firstPrice(ext External, paths []path, fallback string) string {
	for _, p := range paths {
		switch v := lookup(ext, p).(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', 2, 64)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return strconv.FormatFloat(f, 'f', 2, 64)
			}
		}
	}
	return fallback
}
