package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrWeekNotFound 指定周序号不存在
	ErrWeekNotFound = errors.New("week not found")
	// ErrTaskNotFound 指定任务不存在
	ErrTaskNotFound = errors.New("task not found")
	// ErrWeekExists 周序号已被占用
	ErrWeekExists = errors.New("week already exists")
	// ErrInvalidInput 字段无法写入存储（例如 week_number 不是整数）
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable 存储连接失败或超时
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// storeError wraps a failed store call, tagging connection-level failures
// with ErrStoreUnavailable so the HTTP layer can tell them apart.
func storeError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	if isClosedDB(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// database/sql 在 *sql.DB 关闭后返回未导出的 errDBClosed，只能按文本匹配；
// 该错误可能被驱动或 gorm 包装，因此沿 Unwrap 链逐层比较
const sqlDBClosedMessage = "sql: database is closed"

func isClosedDB(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if err.Error() == sqlDBClosedMessage {
			return true
		}
	}
	return false
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
