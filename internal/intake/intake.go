// Package intake содержит чистые функции для минимальной телефонной
// записи: нормализация телефона, разбор свободного описания автомобиля,
// синтез плейсхолдер-номера и эвристики совпадения.
package intake

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Leganyst/workshop-platform/internal/model"
)

// Сентинелы для автомобиля, у которого по телефону не удалось
// разобрать марку/модель.
const (
	UnknownBrand = "N/A"
	UnknownModel = "Modelo pendiente"
)

// Префикс синтетического номерного знака. Реальные номера с таким
// префиксом не выдаются, коллизия исключена.
const placeholderPlatePrefix = "PEND-"

// Пометка в notes автомобиля, созданного по телефону.
const PendingVerificationNote = "Datos pendientes de verificación en recepción"

// NormalizePhone оставляет в номере только цифры.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

// ParseVehicleDescription наивно разбирает свободный текст:
// первый токен — марка, остаток — модель. Пустые части заменяются
// сентинелами.
func ParseVehicleDescription(description string) (brand, vmodel string) {
	fields := strings.Fields(description)
	switch len(fields) {
	case 0:
		return UnknownBrand, UnknownModel
	case 1:
		return fields[0], UnknownModel
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// PlaceholderPlate синтезирует уникальный временный номерной знак.
func PlaceholderPlate() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return placeholderPlatePrefix + suffix[:8]
}

// IsPlaceholderPlate — является ли номер синтетическим плейсхолдером.
func IsPlaceholderPlate(plate string) bool {
	return strings.HasPrefix(plate, placeholderPlatePrefix)
}

// PreferLongerName — эвристика "более длинное имя полнее":
// сохранённое имя заменяется только строго более длинным новым.
func PreferLongerName(stored, supplied string) bool {
	supplied = strings.TrimSpace(supplied)
	return supplied != "" && len([]rune(supplied)) > len([]rune(strings.TrimSpace(stored)))
}

// MatchVehicle ищет среди автомобилей клиента подходящий по текстовому
// пересечению марки/модели с разобранным описанием. Возвращает nil,
// если совпадения нет.
func MatchVehicle(vehicles []model.Vehicle, brand, vmodel string) *model.Vehicle {
	brand = strings.ToLower(strings.TrimSpace(brand))
	vmodel = strings.ToLower(strings.TrimSpace(vmodel))

	for i := range vehicles {
		v := &vehicles[i]
		vb := strings.ToLower(v.Brand)
		vm := strings.ToLower(v.Model)

		if brand != strings.ToLower(UnknownBrand) && vb != strings.ToLower(UnknownBrand) {
			if vb != brand {
				continue
			}
			// Марка совпала; модель сравниваем мягко, если обе известны.
			if vmodel == strings.ToLower(UnknownModel) || vm == strings.ToLower(UnknownModel) {
				return v
			}
			if strings.Contains(vm, vmodel) || strings.Contains(vmodel, vm) {
				return v
			}
			continue
		}

		// Марка неизвестна с одной из сторон — совпадение только по модели.
		if vmodel != strings.ToLower(UnknownModel) && vm != strings.ToLower(UnknownModel) &&
			(strings.Contains(vm, vmodel) || strings.Contains(vmodel, vm)) {
			return v
		}
	}
	return nil
}
