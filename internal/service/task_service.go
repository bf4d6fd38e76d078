package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskService 负责 tasks 集合的读写
type TaskService struct {
	db       *gorm.DB
	ordering *OrderingService
}

// TaskInput 创建任务时的字段，DueDate 为空时存为 null
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
	Status      string
	WeekNumber  int
}

// 局部更新中映射到固定列的字段，其余字段进入 Extra。
// 文本列不校验类型，非字符串值按 JSON 文本保存
var taskStringColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"priority":    "priority",
	"status":      "status",
}

var taskIntColumns = map[string]string{
	"week_number": "week_number",
	"order_index": "order_index",
}

// 不允许通过局部更新修改的字段
var taskImmutableFields = map[string]struct{}{
	"id":         {},
	"created_at": {},
}

// NewTaskService 构造 TaskService
func NewTaskService(gdb *gorm.DB, ordering *OrderingService) *TaskService {
	return &TaskService{db: gdb, ordering: ordering}
}

// Create 新建任务并追加到所在列的末尾
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*db.Task, error) {
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.StatusTodo
	}

	orderIndex, err := s.ordering.NextOrderIndex(ctx, input.WeekNumber, status)
	if err != nil {
		return nil, err
	}

	task := db.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     optionalString(input.DueDate),
		Status:      status,
		WeekNumber:  input.WeekNumber,
		OrderIndex:  orderIndex,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, storeError("create task", err)
	}
	return &task, nil
}

// Get 根据 ID 获取任务
func (s *TaskService) Get(ctx context.Context, id string) (*db.Task, error) {
	var task db.Task
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError("get task", err)
	}
	return &task, nil
}

// ListByWeek 返回某周全部任务，按列内位置升序
func (s *TaskService) ListByWeek(ctx context.Context, weekNumber int) ([]db.Task, error) {
	var tasks []db.Task
	if err := s.db.WithContext(ctx).
		Where("week_number = ?", weekNumber).
		Order("order_index ASC").
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, storeError("list week tasks", err)
	}
	return tasks, nil
}

// Update 将 fields 合并进已有任务，只修改提供的字段。
// id/created_at 会被忽略；未知字段原样保存在 Extra 中。
func (s *TaskService) Update(ctx context.Context, id string, fields map[string]any) (*db.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, extra, err := taskUpdates(fields)
	if err != nil {
		return nil, err
	}

	if len(extra) > 0 {
		merged := datatypes.JSONMap{}
		for key, value := range task.Extra {
			merged[key] = value
		}
		for key, value := range extra {
			merged[key] = value
		}
		updates["extra"] = merged
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.WithContext(ctx).Model(&db.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, storeError("update task", err)
	}

	return s.Get(ctx, id)
}

// Delete 删除任务。目标不存在时同样视为成功，同列其余任务的位置不会重排。
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Task{}).Error; err != nil {
		return storeError("delete task", err)
	}
	return nil
}

func taskUpdates(fields map[string]any) (map[string]any, map[string]any, error) {
	updates := map[string]any{}
	extra := map[string]any{}

	for key, value := range fields {
		if _, skip := taskImmutableFields[key]; skip {
			continue
		}

		if column, ok := taskStringColumns[key]; ok {
			updates[column] = TextValue(value)
			continue
		}

		if column, ok := taskIntColumns[key]; ok {
			number, ok := IntValue(value)
			if !ok {
				return nil, nil, invalidInput("%s must be an integer", key)
			}
			updates[column] = number
			continue
		}

		if key == "due_date" {
			if value == nil {
				updates["due_date"] = nil
				continue
			}
			updates["due_date"] = optionalString(TextValue(value))
			continue
		}

		extra[key] = value
	}

	return updates, extra, nil
}

// IntValue 将 JSON 解码得到的值转换为整数，接受整数值的数字与数字字符串
func IntValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return IntValue(f)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

// TextValue 将任意 JSON 值转换为文本列的内容：字符串原样保存，
// 其余值保存其 JSON 文本形式，nil 为空串
func TextValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
