package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"gorm.io/gorm"
)

// OrderingService 负责任务在看板列内的位置
type OrderingService struct {
	db *gorm.DB
}

// ReorderItem 描述一次拖拽后单个任务的新位置
type ReorderItem struct {
	ID         string
	Status     string
	OrderIndex int
}

// NewOrderingService 构造 OrderingService
func NewOrderingService(gdb *gorm.DB) *OrderingService {
	return &OrderingService{db: gdb}
}

// NextOrderIndex 返回新任务在 (weekNumber, status) 列中的位置，即该列现有任务数。
// 先计数后写入，同一列并发创建时可能得到相同的位置。
func (s *OrderingService) NextOrderIndex(ctx context.Context, weekNumber int, status string) (int, error) {
	if status == "" {
		status = db.StatusTodo
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&db.Task{}).
		Where("week_number = ? AND status = ?", weekNumber, status).
		Count(&count).Error; err != nil {
		return 0, storeError("count column tasks", err)
	}
	return int(count), nil
}

// Reorder 在同一个事务中写入全部位置变更，任一条失败则整体回滚。
// 不读取当前状态，传入的 status/order_index 原样覆盖；同一 ID 出现多次时以最后一条为准。
func (s *OrderingService) Reorder(ctx context.Context, items []ReorderItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			result := tx.Model(&db.Task{}).
				Where("id = ?", item.ID).
				Updates(map[string]any{
					"status":      item.Status,
					"order_index": item.OrderIndex,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrTaskNotFound, item.ID)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return 0, err
		}
		return 0, storeError("reorder tasks", err)
	}

	return len(items), nil
}
