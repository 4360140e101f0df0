package middleware

import (
	"errors"
	"net/http"

	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/response"
	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/metrics"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/gin-gonic/gin"
)

const (
	MessageTokenMissing = "CSRFトークンが設定されていません。"
	MessageTokenExpired = "セッションの有効期限が切れました。ページを再読み込みしてください。"
)

// InquiryToken checks the anti-forgery token posted in the csrf_token form
// field before the submission handler runs.
//
// Rejections use status 200 so the browser controller shows the message
// instead of its generic transport error.
func InquiryToken(tokens domain.TokenUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.GetPostForm(validation.FieldToken)

		err := tokens.Verify(c.Request.Context(), value)
		if err == nil {
			c.Next()
			return
		}

		message := MessageTokenExpired
		reason := "invalid"
		if errors.Is(err, domain.ErrTokenMissing) {
			message = MessageTokenMissing
			reason = "missing"
		}

		log := Logger(c)
		log.Warn().Err(err).Str("reason", reason).Msg("inquiry rejected by token check")

		metrics.RecordSubmission(metrics.OutcomeRejectedToken)
		response.Error(c, http.StatusOK, message, nil)
		c.Abort()
	}
}
