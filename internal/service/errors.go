package service

import "errors"

// 业务错误分类，HTTP 层用 errors.Is 映射状态码
var (
	// ErrNotFound 订单号、商品、地址、顾客等不存在
	ErrNotFound = errors.New("not found")
	// ErrValidation 请求字段缺失或非法
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock 库存不足，下单前置校验失败
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStorage 底层存储失败，事务已整体回滚
	ErrStorage = errors.New("storage error")
	// ErrDuplicateEmail 注册邮箱已存在
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials 登录凭证错误
	ErrInvalidCredentials = errors.New("invalid login credentials")
)
