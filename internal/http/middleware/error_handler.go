package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/validation"
)

const internalMessage = "erro interno do servidor"

// ErrorHandler отвечает на ошибки, добавленные обработчиками через c.Error.
// AppError отдаёт свой статус и сообщение, ошибки валидации дополняются полями,
// всё остальное маскируется как внутренняя ошибка.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		resp := dto.ErrorResponse{Error: internalMessage, Code: string(apperror.ErrCodeInternal)}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status = appErr.HTTPStatus
			resp.Code = string(appErr.Code)
			if status < http.StatusInternalServerError {
				resp.Error = appErr.Message
			}
		}

		var fields validation.Errors
		if errors.As(err, &fields) {
			resp.Fields = fields
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"status": status,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request error")
		} else {
			entry.Debug("request rejected")
		}

		c.JSON(status, resp)
	}
}
