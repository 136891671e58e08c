package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/storefront-backend/internal/errors"
	"github.com/unclebandit/storefront-backend/internal/model"
)

// updateCustomerFields holds the values that survived the partial-update rules.
// Limits match the customers table columns.
type updateCustomerFields struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=50"`
}

// ParseCustomerUpdate turns a PUT body into a partial update:
//   - name is applied when it is a non-empty string
//   - email is applied when it is non-empty after lower-casing and trimming
//   - phone is applied whenever the key is present; null clears it
//   - address is applied when it is a JSON object
//
// An empty body is an empty update.
func ParseCustomerUpdate(body []byte, v *validatorv10.Validate) (model.CustomerUpdate, error) {
	var upd model.CustomerUpdate

	if len(bytes.TrimSpace(body)) == 0 {
		return upd, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return upd, fmt.Errorf("%w: %v", appErrors.ErrInvalidBody, err)
	}

	name, err := optionalString(raw, "name")
	if err != nil {
		return upd, err
	}
	if name != nil && *name != "" {
		upd.Name = name
	}

	email, err := optionalString(raw, "email")
	if err != nil {
		return upd, err
	}
	if email != nil {
		if normalized := model.NormalizeEmail(*email); normalized != "" {
			upd.Email = &normalized
		}
	}

	if _, present := raw["phone"]; present {
		phone, err := optionalString(raw, "phone")
		if err != nil {
			return upd, err
		}
		if phone == nil {
			upd.ClearPhone = true
		} else {
			upd.Phone = phone
		}
	}

	if rawAddr, present := raw["address"]; present && !isNull(rawAddr) {
		var addr map[string]any
		if err := json.Unmarshal(rawAddr, &addr); err != nil {
			return upd, fmt.Errorf("%w: address must be an object", appErrors.ErrInvalidBody)
		}
		upd.Address = addr
	}

	if err := v.Struct(updateCustomerFields{Name: upd.Name, Email: upd.Email, Phone: upd.Phone}); err != nil {
		return upd, &appErrors.ValidationError{Fields: validationErrorsToMap(err)}
	}

	return upd, nil
}

// optionalString decodes key as a string. Absent keys and JSON null return nil.
func optionalString(raw map[string]json.RawMessage, key string) (*string, error) {
	msg, ok := raw[key]
	if !ok || isNull(msg) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", appErrors.ErrInvalidBody, key)
	}
	return &s, nil
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}
