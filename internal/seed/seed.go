// Package seed 生成演示用的周与任务数据
package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/Sg-suraj/roadmap-tracker/internal/service"
)

type weekCreator interface {
	Create(ctx context.Context, input service.WeekInput) (*db.Week, error)
}

type taskCreator interface {
	Create(ctx context.Context, input service.TaskInput) (*db.Task, error)
}

// Result 统计一次填充实际写入的数量
type Result struct {
	WeeksCreated int
	WeeksSkipped int
	TasksCreated int
}

type demoWeek struct {
	input service.WeekInput
	tasks []service.TaskInput
}

var demoWeeks = []demoWeek{
	{
		input: service.WeekInput{WeekNumber: 1, Title: "Foundations", Goal: "Set up the **toolchain** and sketch the roadmap."},
		tasks: []service.TaskInput{
			{Title: "Install toolchain", Priority: "high", Status: db.StatusDone},
			{Title: "Write project README", Priority: "medium", Status: db.StatusDone},
			{Title: "Draft milestone list", Description: "Outline the next *six* weeks.", Priority: "medium", Status: db.StatusInProgress},
			{Title: "Pick a hosting provider", Priority: "low"},
		},
	},
	{
		input: service.WeekInput{WeekNumber: 2, Title: "Core features", Goal: "Ship the board with drag and drop."},
		tasks: []service.TaskInput{
			{Title: "Design task schema", Priority: "high", Status: db.StatusDone},
			{Title: "Implement reorder endpoint", Priority: "high", Status: db.StatusInProgress, DueDate: "2025-01-17"},
			{Title: "Progress bar on dashboard", Priority: "medium"},
		},
	},
	{
		input: service.WeekInput{WeekNumber: 3, Title: "Polish", Goal: "Fix rough edges and write docs."},
		tasks: []service.TaskInput{
			{Title: "Accessibility pass", Priority: "medium"},
			{Title: "Deployment guide", Priority: "low"},
		},
	},
}

// Run 写入演示数据。已存在的周会被跳过，其下的任务也不再重复创建。
func Run(ctx context.Context, weeks weekCreator, tasks taskCreator, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var result Result
	for _, demo := range demoWeeks {
		if _, err := weeks.Create(ctx, demo.input); err != nil {
			if errors.Is(err, service.ErrWeekExists) {
				logger.Info("week already exists, skipping", "week_number", demo.input.WeekNumber)
				result.WeeksSkipped++
				continue
			}
			return result, err
		}
		result.WeeksCreated++

		for _, task := range demo.tasks {
			task.WeekNumber = demo.input.WeekNumber
			if _, err := tasks.Create(ctx, task); err != nil {
				return result, err
			}
			result.TasksCreated++
		}
		logger.Info("seeded week", "week_number", demo.input.WeekNumber, "tasks", len(demo.tasks))
	}

	return result, nil
}
