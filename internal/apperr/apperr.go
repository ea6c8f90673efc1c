package apperr

import (
	"errors"
	"fmt"
)

// 查询类错误：实体不存在，或不属于当前用户
var ErrNotFound = errors.New("not found")

// ErrDuplicate 唯一键冲突（如邮箱、slug 重复）
var ErrDuplicate = errors.New("duplicate entry")

// ErrConflict 引用冲突，如删除仍被商品引用的分类
var ErrConflict = errors.New("conflicting reference")

// ErrStorage 存储层错误的统一标记，具体原因通过 Unwrap 获取
var ErrStorage = errors.New("storage error")

// ValidationError 入参校验失败，在任何数据库访问之前抛出
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// Validation 构造校验错误
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ProductNotFoundError 下单时商品不存在
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError 下单时库存不足
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

type storageError struct {
	cause error
}

func (e *storageError) Error() string {
	return "storage error: " + e.cause.Error()
}

func (e *storageError) Unwrap() error {
	return e.cause
}

func (e *storageError) Is(target error) bool {
	return target == ErrStorage
}

// Storage 包装底层数据库错误，errors.Is(err, ErrStorage) 成立
func Storage(cause error) error {
	if cause == nil {
		return nil
	}
	return &storageError{cause: cause}
}
