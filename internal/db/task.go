package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task 状态取值。存储层不做约束，未知或缺失的状态在统计时按 todo 处理
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task 对应 tasks 集合中的一条文档
// WeekNumber 按值关联 Week，不建立外键；(WeekNumber, Status) 构成看板的一列，
// OrderIndex 是列内位置，创建时按列内数量分配，删除或换列后不会重排
// Extra 保存局部更新时写入的非固定字段
type Task struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string
	Description string
	Priority    string
	DueDate     *string
	Status      string `gorm:"index:idx_tasks_column,priority:2"`
	WeekNumber  int    `gorm:"index:idx_tasks_column,priority:1"`
	CreatedAt   time.Time
	OrderIndex  int
	Extra       datatypes.JSONMap
}

// TableName 固定集合名
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate 为新文档分配存储侧 ID
func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
