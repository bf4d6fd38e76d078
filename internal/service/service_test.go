package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(db.Options{
		Driver:   db.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "service.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() { db.Close(gdb) })
	return gdb
}

type testServices struct {
	weeks    *WeekService
	tasks    *TaskService
	ordering *OrderingService
	progress *ProgressService
}

func newTestServices(gdb *gorm.DB) testServices {
	ordering := NewOrderingService(gdb)
	return testServices{
		weeks:    NewWeekService(gdb),
		tasks:    NewTaskService(gdb, ordering),
		ordering: ordering,
		progress: NewProgressService(gdb),
	}
}

func mustCreateTask(t *testing.T, svc *TaskService, input TaskInput) *db.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	return task
}
