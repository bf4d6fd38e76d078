package handler

import (
	"context"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/Sg-suraj/roadmap-tracker/internal/service"
)

type weekProvider interface {
	List(ctx context.Context) ([]db.Week, error)
	GetByNumber(ctx context.Context, weekNumber int) (*db.Week, error)
	Create(ctx context.Context, input service.WeekInput) (*db.Week, error)
	Update(ctx context.Context, weekNumber int, patch service.WeekPatch) (*db.Week, error)
}

type taskProvider interface {
	Create(ctx context.Context, input service.TaskInput) (*db.Task, error)
	Get(ctx context.Context, id string) (*db.Task, error)
	ListByWeek(ctx context.Context, weekNumber int) ([]db.Task, error)
	Update(ctx context.Context, id string, fields map[string]any) (*db.Task, error)
	Delete(ctx context.Context, id string) error
}

type progressProvider interface {
	WeekProgress(ctx context.Context, weekNumber int) (service.Progress, error)
	ProgressByWeek(ctx context.Context, weekNumbers []int) (map[int]service.Progress, error)
}

type taskOrderer interface {
	Reorder(ctx context.Context, items []service.ReorderItem) (int, error)
}
