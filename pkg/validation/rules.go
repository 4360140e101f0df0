package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Inquiry form field names as they appear on the wire
const (
	FieldCarType      = "car_type"
	FieldName         = "name"
	FieldNameKana     = "name_kana"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldVisitDate    = "visit_date"
	FieldVisitTime    = "visit_time"
	FieldStore        = "store"
	FieldMessage      = "message"
	FieldPrivacyAgree = "privacy_agree"
	FieldToken        = "csrf_token"
)

// DateLayout is the value format of an <input type="date">
const DateLayout = "2006-01-02"

type Check string

const (
	CheckRequired Check = "required"
	CheckEmail    Check = "email"
	CheckDigits   Check = "digits"
	CheckAgreed   Check = "agreed"
	CheckNotPast  Check = "not_past"
)

// Scope says which enforcement points apply a rule.
type Scope string

const (
	ScopeBoth   Scope = "both"
	ScopeClient Scope = "client"
)

// Rule binds one predicate on one field to the message shown when it fails.
type Rule struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Check   Check  `json:"check"`
	Message string `json:"message"`
	Pattern string `json:"pattern,omitempty"`
	Scope   Scope  `json:"scope"`
}

// FieldErrors maps a field name to the single message reported for it.
type FieldErrors map[string]string

// Fields exposes submitted values by form field name. Boolean fields report
// a non-empty string when set.
type Fields interface {
	Value(field string) string
}

// InquiryRules returns the ordered rule set for the inquiry form.
func InquiryRules() []Rule {
	return []Rule{
		{Field: FieldCarType, Label: "お問い合わせ希望車種", Check: CheckRequired, Message: "お問い合わせ希望車種を選択してください。", Scope: ScopeBoth},
		{Field: FieldName, Label: "お名前", Check: CheckRequired, Message: "お名前を入力してください。", Scope: ScopeBoth},
		{Field: FieldNameKana, Label: "お名前（ふりがな）", Check: CheckRequired, Message: "お名前（ふりがな）を入力してください。", Scope: ScopeBoth},
		{Field: FieldEmail, Label: "メールアドレス", Check: CheckRequired, Message: "メールアドレスを入力してください。", Scope: ScopeBoth},
		{Field: FieldPhone, Label: "電話番号", Check: CheckRequired, Message: "電話番号を入力してください。", Scope: ScopeBoth},
		{Field: FieldVisitDate, Label: "来店希望日", Check: CheckRequired, Message: "来店希望日を選択してください。", Scope: ScopeBoth},
		{Field: FieldVisitTime, Label: "来店希望時間", Check: CheckRequired, Message: "来店希望時間を選択してください。", Scope: ScopeBoth},
		{Field: FieldStore, Label: "来店希望店舗", Check: CheckRequired, Message: "来店希望店舗を選択してください。", Scope: ScopeBoth},
		{Field: FieldPrivacyAgree, Label: "プライバシーポリシー", Check: CheckAgreed, Message: "プライバシーポリシーに同意してください。", Scope: ScopeBoth},
		{Field: FieldVisitDate, Label: "来店希望日", Check: CheckNotPast, Message: "来店希望日は今日以降の日付を選択してください。", Scope: ScopeClient},
		{Field: FieldEmail, Label: "メールアドレス", Check: CheckEmail, Message: "正しいメールアドレスを入力してください。", Pattern: ClientEmailPattern, Scope: ScopeBoth},
		{Field: FieldPhone, Label: "電話番号", Check: CheckDigits, Message: "電話番号は数字のみで入力してください（ハイフンなし）。", Pattern: DigitsPattern, Scope: ScopeBoth},
	}
}

// Validator enforces a rule set. The server side is authoritative; the client
// side mirrors what the browser does before submitting.
type Validator struct {
	validate *validator.Validate
	rules    []Rule
	patterns map[string]*regexp.Regexp
}

// New builds a Validator over InquiryRules.
func New() *Validator {
	return NewWithRules(InquiryRules())
}

func NewWithRules(rules []Rule) *Validator {
	v := validator.New()
	RegisterValidators(v)

	patterns := make(map[string]*regexp.Regexp)
	for _, r := range rules {
		if r.Pattern != "" {
			if _, ok := patterns[r.Pattern]; !ok {
				patterns[r.Pattern] = regexp.MustCompile(r.Pattern)
			}
		}
	}

	return &Validator{
		validate: v,
		rules:    rules,
		patterns: patterns,
	}
}

// Rules returns a copy of the rule set, suitable for serving to the browser.
func (v *Validator) Rules() []Rule {
	out := make([]Rule, len(v.rules))
	copy(out, v.rules)
	return out
}

// Server runs every ScopeBoth rule. Format rules ignore empty values, so a
// field reports at most one message; a later rule on the same field wins.
func (v *Validator) Server(f Fields) FieldErrors {
	errs := FieldErrors{}
	for _, r := range v.rules {
		if r.Scope != ScopeBoth {
			continue
		}
		value := f.Value(r.Field)

		var failed bool
		switch r.Check {
		case CheckRequired:
			failed = isBlank(value)
		case CheckAgreed:
			failed = value == ""
		case CheckEmail:
			failed = !isBlank(value) && v.validate.Var(value, "email") != nil
		case CheckDigits:
			failed = !isBlank(value) && v.validate.Var(value, "digits") != nil
		}

		if failed {
			errs[r.Field] = r.Message
		}
	}
	return errs
}

// Client runs every rule the way the browser does and returns the messages in
// rule order. today is truncated to its calendar day in its own location.
func (v *Validator) Client(f Fields, today time.Time) []string {
	var messages []string
	for _, r := range v.rules {
		value := f.Value(r.Field)

		var failed bool
		switch r.Check {
		case CheckRequired:
			failed = isBlank(value)
		case CheckAgreed:
			failed = value == ""
		case CheckEmail, CheckDigits:
			failed = !isBlank(value) && !v.patterns[r.Pattern].MatchString(value)
		case CheckNotPast:
			failed = value != "" && IsPastDate(value, today)
		}

		if failed {
			messages = append(messages, r.Message)
		}
	}
	return messages
}

// isBlank is the emptiness test shared by required and format rules, so a
// whitespace-only value reports only the required message.
func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// IsPastDate reports whether a yyyy-mm-dd value falls strictly before the
// calendar day of now. Unparseable values are not treated as past.
func IsPastDate(value string, now time.Time) bool {
	selected, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return selected.Before(startOfDay)
}
