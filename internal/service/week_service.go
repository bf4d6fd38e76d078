package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"gorm.io/gorm"
)

// WeekService 负责 weeks 集合的读写
type WeekService struct {
	db *gorm.DB
}

// WeekInput 创建周时的字段
type WeekInput struct {
	WeekNumber int
	Title      string
	Goal       string
}

// WeekPatch 只更新非 nil 的字段
type WeekPatch struct {
	Title *string
	Goal  *string
}

// NewWeekService 构造 WeekService
func NewWeekService(gdb *gorm.DB) *WeekService {
	return &WeekService{db: gdb}
}

// List 按周序号升序返回全部周
func (s *WeekService) List(ctx context.Context) ([]db.Week, error) {
	var weeks []db.Week
	if err := s.db.WithContext(ctx).Order("week_number ASC").Find(&weeks).Error; err != nil {
		return nil, storeError("list weeks", err)
	}
	return weeks, nil
}

// GetByNumber 按周序号查找
func (s *WeekService) GetByNumber(ctx context.Context, weekNumber int) (*db.Week, error) {
	var week db.Week
	if err := s.db.WithContext(ctx).Where("week_number = ?", weekNumber).First(&week).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, storeError("get week", err)
	}
	return &week, nil
}

// Create 新建一周。先查询是否已存在再写入；
// 查询与写入之间的并发创建由 week_number 唯一索引拦截，同样返回 ErrWeekExists。
func (s *WeekService) Create(ctx context.Context, input WeekInput) (*db.Week, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&db.Week{}).
		Where("week_number = ?", input.WeekNumber).
		Count(&count).Error; err != nil {
		return nil, storeError("check week", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: week %d", ErrWeekExists, input.WeekNumber)
	}

	week := db.Week{
		WeekNumber: input.WeekNumber,
		Title:      input.Title,
		Goal:       input.Goal,
	}
	if err := s.db.WithContext(ctx).Create(&week).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: week %d", ErrWeekExists, input.WeekNumber)
		}
		return nil, storeError("create week", err)
	}
	return &week, nil
}

// Update 修改标题/目标，未提供的字段保持不变
func (s *WeekService) Update(ctx context.Context, weekNumber int, patch WeekPatch) (*db.Week, error) {
	week, err := s.GetByNumber(ctx, weekNumber)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Goal != nil {
		updates["goal"] = *patch.Goal
	}
	if len(updates) == 0 {
		return week, nil
	}

	if err := s.db.WithContext(ctx).Model(week).Updates(updates).Error; err != nil {
		return nil, storeError("update week", err)
	}

	return s.GetByNumber(ctx, weekNumber)
}
