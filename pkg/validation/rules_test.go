package validation_test

import (
	"testing"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/stretchr/testify/assert"
)

type form map[string]string

func (f form) Value(field string) string { return f[field] }

func validForm() form {
	return form{
		validation.FieldCarType:      "N-BOX",
		validation.FieldName:         "山田太郎",
		validation.FieldNameKana:     "やまだたろう",
		validation.FieldEmail:        "a@b.co",
		validation.FieldPhone:        "09012345678",
		validation.FieldVisitDate:    "2026-10-20",
		validation.FieldVisitTime:    "10:00〜12:00",
		validation.FieldStore:        "堺本店",
		validation.FieldPrivacyAgree: "on",
	}
}

func TestServerRequiredFields(t *testing.T) {
	v := validation.New()
	required := []string{
		validation.FieldCarType,
		validation.FieldName,
		validation.FieldNameKana,
		validation.FieldEmail,
		validation.FieldPhone,
		validation.FieldVisitDate,
		validation.FieldVisitTime,
		validation.FieldStore,
		validation.FieldPrivacyAgree,
	}

	messages := map[string]string{}
	for _, r := range validation.InquiryRules() {
		if r.Check == validation.CheckRequired || r.Check == validation.CheckAgreed {
			messages[r.Field] = r.Message
		}
	}

	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			f := validForm()
			delete(f, field)

			errs := v.Server(f)
			assert.Equal(t, validation.FieldErrors{field: messages[field]}, errs)
		})
	}
}

func TestServerValidFormHasNoErrors(t *testing.T) {
	assert.Empty(t, validation.New().Server(validForm()))
}

func TestServerWhitespaceIsEmpty(t *testing.T) {
	f := validForm()
	f[validation.FieldName] = "   "
	f[validation.FieldEmail] = "   "
	f[validation.FieldPhone] = " \t "

	errs := validation.New().Server(f)
	assert.Equal(t, validation.FieldErrors{
		validation.FieldName:  "お名前を入力してください。",
		validation.FieldEmail: "メールアドレスを入力してください。",
		validation.FieldPhone: "電話番号を入力してください。",
	}, errs)
}

func TestClientWhitespaceReportsRequiredOnly(t *testing.T) {
	f := validForm()
	f[validation.FieldEmail] = "   "
	f[validation.FieldPhone] = "   "

	msgs := validation.New().Client(f, time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{
		"メールアドレスを入力してください。",
		"電話番号を入力してください。",
	}, msgs)
}

func TestServerEmailFormat(t *testing.T) {
	v := validation.New()

	f := validForm()
	f[validation.FieldEmail] = "not-an-email"
	assert.Equal(t, "正しいメールアドレスを入力してください。", v.Server(f)[validation.FieldEmail])

	f[validation.FieldEmail] = "a@b.co"
	assert.NotContains(t, v.Server(f), validation.FieldEmail)
}

func TestServerPhoneDigits(t *testing.T) {
	v := validation.New()

	f := validForm()
	f[validation.FieldPhone] = "090-1234-5678"
	assert.Equal(t, "電話番号は数字のみで入力してください（ハイフンなし）。", v.Server(f)[validation.FieldPhone])

	f[validation.FieldPhone] = "09012345678"
	assert.NotContains(t, v.Server(f), validation.FieldPhone)
}

func TestServerEmptyEmailReportsRequiredOnly(t *testing.T) {
	f := validForm()
	f[validation.FieldEmail] = ""

	errs := validation.New().Server(f)
	assert.Equal(t, "メールアドレスを入力してください。", errs[validation.FieldEmail])
	assert.Len(t, errs, 1)
}

func TestServerIgnoresPastDate(t *testing.T) {
	f := validForm()
	f[validation.FieldVisitDate] = "2000-01-01"

	assert.Empty(t, validation.New().Server(f))
}

func TestClientPastDate(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, loc)
	v := validation.New()

	f := validForm()
	f[validation.FieldVisitDate] = "2026-10-13"
	assert.Equal(t, []string{"来店希望日は今日以降の日付を選択してください。"}, v.Client(f, now))

	f[validation.FieldVisitDate] = "2026-10-14"
	assert.Empty(t, v.Client(f, now))

	f[validation.FieldVisitDate] = "2026-10-15"
	assert.Empty(t, v.Client(f, now))
}

func TestClientMessagesAreOrdered(t *testing.T) {
	f := form{
		validation.FieldEmail: "foo@bar",
		validation.FieldPhone: "090-1",
	}

	messages := validation.New().Client(f, time.Now())
	assert.Equal(t, []string{
		"お問い合わせ希望車種を選択してください。",
		"お名前を入力してください。",
		"お名前（ふりがな）を入力してください。",
		"来店希望日を選択してください。",
		"来店希望時間を選択してください。",
		"来店希望店舗を選択してください。",
		"プライバシーポリシーに同意してください。",
		"正しいメールアドレスを入力してください。",
		"電話番号は数字のみで入力してください（ハイフンなし）。",
	}, messages)
}

func TestClientEmailIsPermissive(t *testing.T) {
	v := validation.New()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	f := validForm()

	f[validation.FieldEmail] = "x@y.z"
	assert.Empty(t, v.Client(f, now))

	f[validation.FieldEmail] = "with space@y.z"
	assert.Contains(t, v.Client(f, now), "正しいメールアドレスを入力してください。")
}

func TestIsPastDateUnparseable(t *testing.T) {
	assert.False(t, validation.IsPastDate("tomorrow", time.Now()))
}
