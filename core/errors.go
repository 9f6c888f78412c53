package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），基于 errors.As，可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - 引用缺失：活动/候选引用了目录或向量库中不存在的课程（MISSING_REFERENCE，可恢复）
//   - 状态损坏：索引位置无法解析、索引为空、向量维度不一致（CORRUPT_STATE，本次请求失败）
//   - 输入无效：权重表、TopK 等配置不合法（INVALID_INPUT）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "CORRUPT_STATE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "index", "interest"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 让 errors.Is 可以按 Module + Code 匹配哨兵错误。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Module == "" || e.Module == t.Module)
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// Errorf 按格式创建领域错误，消息自动带上模块前缀。
func Errorf(module, code, format string, args ...any) *DomainError {
	return NewDomainError(module, code, module+": "+fmt.Sprintf(format, args...))
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported     = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInvalidInput     = "INVALID_INPUT"     // 输入无效
	ErrorCodeMissingReference = "MISSING_REFERENCE" // 引用了目录/向量库中不存在的课程
	ErrorCodeCorruptState     = "CORRUPT_STATE"     // 索引或向量库状态损坏
)

// 模块名称常量
const (
	ModuleCatalog   = "catalog"
	ModuleEmbedding = "embedding"
	ModuleIndex     = "index"
	ModuleInterest  = "interest"
	ModuleRecall    = "recall"
	ModuleRank      = "rank"
	ModuleStore     = "store"
	ModuleLoader    = "loader"
	ModuleEngine    = "engine"
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsMissingReference 检查错误是否为 MISSING_REFERENCE
func IsMissingReference(err error) bool { return hasCode(err, ErrorCodeMissingReference) }

// IsCorruptState 检查错误是否为 CORRUPT_STATE
func IsCorruptState(err error) bool { return hasCode(err, ErrorCodeCorruptState) }
