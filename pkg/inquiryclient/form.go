package inquiryclient

import (
	"strings"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"
)

// Form is what a visitor fills in on the inquiry page
type Form struct {
	CarType      string
	Name         string
	NameKana     string
	Email        string
	Phone        string
	VisitDate    string
	VisitTime    string
	Store        string
	Message      string
	PrivacyAgree bool
}

// Value implements validation.Fields
func (f Form) Value(field string) string {
	switch field {
	case validation.FieldCarType:
		return f.CarType
	case validation.FieldName:
		return f.Name
	case validation.FieldNameKana:
		return f.NameKana
	case validation.FieldEmail:
		return f.Email
	case validation.FieldPhone:
		return f.Phone
	case validation.FieldVisitDate:
		return f.VisitDate
	case validation.FieldVisitTime:
		return f.VisitTime
	case validation.FieldStore:
		return f.Store
	case validation.FieldMessage:
		return f.Message
	case validation.FieldPrivacyAgree:
		if f.PrivacyAgree {
			return "1"
		}
	}
	return ""
}

// formData encodes the form the way a browser posts it. An unchecked
// checkbox is left out entirely.
func (f Form) formData(token string) map[string]string {
	data := map[string]string{
		validation.FieldCarType:   f.CarType,
		validation.FieldName:      f.Name,
		validation.FieldNameKana:  f.NameKana,
		validation.FieldEmail:     f.Email,
		validation.FieldPhone:     f.Phone,
		validation.FieldVisitDate: f.VisitDate,
		validation.FieldVisitTime: f.VisitTime,
		validation.FieldStore:     f.Store,
		validation.FieldMessage:   f.Message,
		validation.FieldToken:     token,
	}
	if f.PrivacyAgree {
		data[validation.FieldPrivacyAgree] = "1"
	}
	return data
}

// ValidationError lists every failing rule in order
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "以下のエラーがあります：\n\n" + strings.Join(e.Messages, "\n")
}
