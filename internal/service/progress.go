package service

import (
	"context"
	"database/sql"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"gorm.io/gorm"
)

// Progress 汇总某一周任务的完成情况
type Progress struct {
	Total      int
	Done       int
	Todo       int
	InProgress int
	Percentage int
}

// TallyStatuses 按状态分类计数。done/in_progress 之外的取值（包括缺失）都计为 todo。
// Percentage 为 done/total 向下取整的百分比，total 为 0 时为 0。
func TallyStatuses(statuses []string) Progress {
	var p Progress
	for _, status := range statuses {
		p.add(status)
	}
	p.finish()
	return p
}

func (p *Progress) add(status string) {
	p.Total++
	switch status {
	case db.StatusDone:
		p.Done++
	case db.StatusInProgress:
		p.InProgress++
	default:
		p.Todo++
	}
}

func (p *Progress) finish() {
	if p.Total == 0 {
		p.Percentage = 0
		return
	}
	p.Percentage = p.Done * 100 / p.Total
}

// ProgressService 计算周进度，只读
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService 构造 ProgressService
func NewProgressService(gdb *gorm.DB) *ProgressService {
	return &ProgressService{db: gdb}
}

// WeekProgress 扫描指定周的全部任务并汇总。没有任务不是错误。
func (s *ProgressService) WeekProgress(ctx context.Context, weekNumber int) (Progress, error) {
	var statuses []sql.NullString
	if err := s.db.WithContext(ctx).
		Model(&db.Task{}).
		Where("week_number = ?", weekNumber).
		Pluck("status", &statuses).Error; err != nil {
		return Progress{}, storeError("week progress", err)
	}

	return TallyStatuses(nullStrings(statuses)), nil
}

// ProgressByWeek 一次读取多个周的任务状态，结果与逐周调用 WeekProgress 一致。
// 每个请求的周序号都会出现在结果中。
func (s *ProgressService) ProgressByWeek(ctx context.Context, weekNumbers []int) (map[int]Progress, error) {
	result := make(map[int]Progress, len(weekNumbers))
	if len(weekNumbers) == 0 {
		return result, nil
	}

	var rows []struct {
		WeekNumber int
		Status     sql.NullString
	}
	if err := s.db.WithContext(ctx).
		Model(&db.Task{}).
		Select("week_number, status").
		Where("week_number IN ?", weekNumbers).
		Scan(&rows).Error; err != nil {
		return nil, storeError("progress by week", err)
	}

	byWeek := make(map[int][]string, len(weekNumbers))
	for _, row := range rows {
		byWeek[row.WeekNumber] = append(byWeek[row.WeekNumber], row.Status.String)
	}
	for _, week := range weekNumbers {
		result[week] = TallyStatuses(byWeek[week])
	}

	return result, nil
}

// nullStrings 将可空列转换为字符串，NULL 视为空串
func nullStrings(values []sql.NullString) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, value.String)
	}
	return out
}
