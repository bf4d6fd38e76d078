package handler

import (
	"errors"
	"net/http"

	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	msgInternalError    = "internal server error"
	msgStoreUnavailable = "document store unavailable"
)

// statusFor 将 service 错误映射为 HTTP 状态码和可以返回给客户端的消息。
// 4xx 的消息来自 service 自己构造的错误文本；5xx 一律使用固定文案。
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, msgStoreUnavailable
	case errors.Is(err, service.ErrWeekNotFound), errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrWeekExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// failRequest 记录 5xx 的原始错误，然后返回 {"error": message}
func (a *API) failRequest(c *gin.Context, err error) {
	status, message := statusFor(err)
	a.logFailure(c, status, err)
	respondError(c, status, message)
}

func (a *API) logFailure(c *gin.Context, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	_ = c.Error(err)
	a.log().Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"error", err,
	)
}
