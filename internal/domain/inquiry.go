package domain

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"golang.org/x/text/width"
)

var (
	// ErrStaffNotification wraps the cause when the business-critical mail fails
	ErrStaffNotification = errors.New("staff notification failed")

	ErrTokenMissing = errors.New("anti-forgery token is missing")
	ErrTokenInvalid = errors.New("anti-forgery token is unknown or expired")
)

// InquiryRequest is one visitor's form submission. It lives for a single
// request and is never stored.
type InquiryRequest struct {
	CarType   string `form:"car_type" json:"car_type"`
	Name      string `form:"name" json:"name"`
	NameKana  string `form:"name_kana" json:"name_kana"`
	Email     string `form:"email" json:"email"`
	Phone     string `form:"phone" json:"phone"`
	VisitDate string `form:"visit_date" json:"visit_date"`
	VisitTime string `form:"visit_time" json:"visit_time"`
	Store     string `form:"store" json:"store"`
	Message   string `form:"message" json:"message"`

	// Set from the presence of the checkbox, whatever its value
	PrivacyAgree bool   `form:"-" json:"privacy_agree"`
	Token        string `form:"csrf_token" json:"-"`
}

// Value implements validation.Fields
func (r *InquiryRequest) Value(field string) string {
	switch field {
	case validation.FieldCarType:
		return r.CarType
	case validation.FieldName:
		return r.Name
	case validation.FieldNameKana:
		return r.NameKana
	case validation.FieldEmail:
		return r.Email
	case validation.FieldPhone:
		return r.Phone
	case validation.FieldVisitDate:
		return r.VisitDate
	case validation.FieldVisitTime:
		return r.VisitTime
	case validation.FieldStore:
		return r.Store
	case validation.FieldMessage:
		return r.Message
	case validation.FieldPrivacyAgree:
		if r.PrivacyAgree {
			return "1"
		}
		return ""
	case validation.FieldToken:
		return r.Token
	}
	return ""
}

// Sanitized returns a copy safe for text and HTML contexts. Full-width ASCII
// in email and phone is folded to half-width first, so "０９０" reaches the
// digits rule as "090".
func (r InquiryRequest) Sanitized() InquiryRequest {
	out := r
	out.CarType = html.EscapeString(r.CarType)
	out.Name = html.EscapeString(r.Name)
	out.NameKana = html.EscapeString(r.NameKana)
	out.Email = html.EscapeString(width.Fold.String(r.Email))
	out.Phone = html.EscapeString(width.Fold.String(r.Phone))
	out.VisitDate = html.EscapeString(r.VisitDate)
	out.VisitTime = html.EscapeString(r.VisitTime)
	out.Store = html.EscapeString(r.Store)
	out.Message = html.EscapeString(r.Message)
	return out
}

// ValidationError carries one message per failing field
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("inquiry validation failed: %s", strings.Join(names, ", "))
}

// InquiryUsecase defines the submit-validate-notify workflow
type InquiryUsecase interface {
	// Submit validates the request and dispatches the staff notification and
	// the visitor acknowledgement. It returns *ValidationError or an error
	// wrapping ErrStaffNotification; acknowledgement failures are not returned.
	Submit(ctx context.Context, req *InquiryRequest) error
	// Rules returns the rule set shared with the browser controller
	Rules() []validation.Rule
}

// TokenUsecase issues and checks anti-forgery tokens
type TokenUsecase interface {
	Issue(ctx context.Context) (string, error)
	// Verify returns ErrTokenMissing or ErrTokenInvalid
	Verify(ctx context.Context, token string) error
}
