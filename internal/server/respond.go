package server

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/Dashazem/back-end-capstone-project/internal/service"
)

// writeError 把业务错误映射成 HTTP 状态码，响应体只带 error 字段
func writeError(ctx iris.Context, err error) {
	status := iris.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = iris.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = iris.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrInsufficientStock):
		status = iris.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = iris.StatusUnauthorized
	}
	ctx.StopWithJSON(status, iris.Map{"error": err.Error()})
}
