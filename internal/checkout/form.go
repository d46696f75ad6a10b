package checkout

import (
	"strings"

	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/validate"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

// Form is everything the shopper fills in on the checkout step
type Form struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`

	DeliveryCity      string `json:"delivery_city"`
	DeliveryStreet    string `json:"delivery_street"`
	DeliveryHouse     string `json:"delivery_house"`
	DeliveryApartment string `json:"delivery_apartment"`
	DeliveryIndex     string `json:"delivery_index"`

	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
	PaymentMethod  domain.PaymentMethod  `json:"payment_method"`

	PromoCode   string `json:"promo_code"`
	Notes       string `json:"notes"`
	AgreeTerms  bool   `json:"agree_terms"`
	SaveAddress bool   `json:"save_address"`
}

// ValidateForm checks the form the way the storefront does: required fields
// first, then the optional ones when filled, then the terms flag. The first
// failure is returned so the client can focus that field.
func ValidateForm(form Form) *perrors.ErrValidation {
	if !validate.Name(form.CustomerName) {
		return &perrors.ErrValidation{
			Field:   "customer_name",
			Message: "Пожалуйста, укажите ваше ФИО (минимум 2 слова)",
		}
	}
	if !validate.Phone(form.CustomerPhone) {
		return &perrors.ErrValidation{
			Field:   "customer_phone",
			Message: "Пожалуйста, укажите корректный номер телефона в формате +7 XXX XXX-XX-XX",
		}
	}
	if strings.TrimSpace(form.DeliveryCity) == "" {
		return &perrors.ErrValidation{
			Field:   "delivery_city",
			Message: "Пожалуйста, укажите город доставки",
		}
	}
	if strings.TrimSpace(form.DeliveryStreet) == "" {
		return &perrors.ErrValidation{
			Field:   "delivery_street",
			Message: "Пожалуйста, укажите улицу",
		}
	}
	if strings.TrimSpace(form.DeliveryHouse) == "" {
		return &perrors.ErrValidation{
			Field:   "delivery_house",
			Message: "Пожалуйста, укажите номер дома",
		}
	}

	// optional fields are validated only when filled
	if strings.TrimSpace(form.CustomerEmail) != "" && !validate.Email(form.CustomerEmail) {
		return &perrors.ErrValidation{
			Field:   "customer_email",
			Message: "Пожалуйста, укажите корректный email адрес",
		}
	}
	if strings.TrimSpace(form.DeliveryIndex) != "" && !validate.PostalCode(form.DeliveryIndex) {
		return &perrors.ErrValidation{
			Field:   "delivery_index",
			Message: "Пожалуйста, укажите корректный почтовый индекс (6 цифр)",
		}
	}

	if !form.AgreeTerms {
		return &perrors.ErrValidation{
			Field:   "agree_terms",
			Message: "Необходимо согласие с условиями обработки персональных данных",
		}
	}

	if !form.DeliveryMethod.IsValid() {
		return &perrors.ErrValidation{
			Field:   "delivery_method",
			Message: "Неизвестный способ доставки",
		}
	}
	if !form.PaymentMethod.IsValid() {
		return &perrors.ErrValidation{
			Field:   "payment_method",
			Message: "Неизвестный способ оплаты",
		}
	}

	return nil
}
