package domain_test

import (
	"testing"

	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/stretchr/testify/assert"
)

func TestSanitizedEscapesMarkup(t *testing.T) {
	req := domain.InquiryRequest{
		Name:    `<script>alert("x")</script>`,
		Message: "Tom & Jerry's",
	}

	out := req.Sanitized()
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;", out.Name)
	assert.Equal(t, "Tom &amp; Jerry&#39;s", out.Message)
	assert.Equal(t, `<script>alert("x")</script>`, req.Name, "input is left untouched")
}

func TestSanitizedFoldsFullWidth(t *testing.T) {
	req := domain.InquiryRequest{
		Phone: "０９０１２３４５６７８",
		Email: "ｔａｒｏ＠ｅｘａｍｐｌｅ．ｃｏｍ",
	}

	out := req.Sanitized()
	assert.Equal(t, "09012345678", out.Phone)
	assert.Equal(t, "taro@example.com", out.Email)
}

func TestValueReportsPrivacyPresence(t *testing.T) {
	req := &domain.InquiryRequest{}
	assert.Equal(t, "", req.Value(validation.FieldPrivacyAgree))

	req.PrivacyAgree = true
	assert.NotEmpty(t, req.Value(validation.FieldPrivacyAgree))
}

func TestValidationErrorMessageListsFields(t *testing.T) {
	err := &domain.ValidationError{Fields: validation.FieldErrors{
		"phone": "x",
		"email": "y",
	}}
	assert.Equal(t, "inquiry validation failed: email, phone", err.Error())
}
