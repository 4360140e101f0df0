package middleware

import (
	"errors"
	"net/http"

	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/response"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				log := Logger(c)
				log.Error().Err(appErr.Err).Int("code", appErr.Code).Msg(appErr.Message)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Never expose internal error details to clients
		log := Logger(c)
		log.Error().Err(err).Msg("Internal Server Error")
		response.Error(c, http.StatusInternalServerError, "エラーが発生しました。しばらく時間をおいて再度お試しください。", nil)
	}
}
