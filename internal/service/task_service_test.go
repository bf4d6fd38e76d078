package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskServiceCreateDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)

	before := time.Now().Add(-time.Second)
	task := mustCreateTask(t, svc.tasks, TaskInput{Title: "Write design doc", Priority: "high", WeekNumber: 2})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "todo", task.Status)
	assert.Nil(t, task.DueDate)
	assert.True(t, task.CreatedAt.After(before))

	withDate := mustCreateTask(t, svc.tasks, TaskInput{Title: "dated", WeekNumber: 2, DueDate: "2025-01-31"})
	require.NotNil(t, withDate.DueDate)
	assert.Equal(t, "2025-01-31", *withDate.DueDate)
}

func TestTaskServiceCreateForUnknownWeek(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)

	task := mustCreateTask(t, svc.tasks, TaskInput{Title: "orphan", WeekNumber: 404})
	assert.Equal(t, 404, task.WeekNumber)
}

func TestTaskServicePartialUpdate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)
	ctx := context.Background()

	task := mustCreateTask(t, svc.tasks, TaskInput{Title: "T", Description: "old", Priority: "low", WeekNumber: 1})

	updated, err := svc.tasks.Update(ctx, task.ID, map[string]any{"description": "x"})
	require.NoError(t, err)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "x", updated.Description)
	assert.Equal(t, "low", updated.Priority)
	assert.Equal(t, task.OrderIndex, updated.OrderIndex)
	assert.Equal(t, task.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestTaskServiceUpdateConvertsAndMerges(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)
	ctx := context.Background()

	task := mustCreateTask(t, svc.tasks, TaskInput{Title: "T", WeekNumber: 1, DueDate: "2025-02-01"})

	updated, err := svc.tasks.Update(ctx, task.ID, map[string]any{
		"id":          "ignored",
		"created_at":  "1999-01-01T00:00:00Z",
		"status":      "done",
		"week_number": float64(2),
		"order_index": json.Number("3"),
		"due_date":    nil,
		"color":       "blue",
	})
	require.NoError(t, err)
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, "done", updated.Status)
	assert.Equal(t, 2, updated.WeekNumber)
	assert.Equal(t, 3, updated.OrderIndex)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "blue", updated.Extra["color"])
	assert.Equal(t, task.CreatedAt.Unix(), updated.CreatedAt.Unix())

	updated, err = svc.tasks.Update(ctx, task.ID, map[string]any{"estimate": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, "blue", updated.Extra["color"])
	assert.EqualValues(t, 5, updated.Extra["estimate"])
}

func TestTaskServiceUpdateRejectsUnstorableValues(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)
	ctx := context.Background()

	task := mustCreateTask(t, svc.tasks, TaskInput{Title: "T", WeekNumber: 1})

	for _, fields := range []map[string]any{
		{"week_number": "three"},
		{"order_index": 1.5},
		{"order_index": json.Number("2.5")},
	} {
		_, err := svc.tasks.Update(ctx, task.ID, fields)
		assert.True(t, errors.Is(err, ErrInvalidInput), "fields %v: got %v", fields, err)
	}

	reloaded, err := svc.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", reloaded.Title)
}

func TestTaskServiceUpdateStoresNonStringText(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)
	ctx := context.Background()

	task := mustCreateTask(t, svc.tasks, TaskInput{Title: "T", WeekNumber: 1})

	updated, err := svc.tasks.Update(ctx, task.ID, map[string]any{
		"priority":    json.Number("2"),
		"title":       12.0,
		"description": map[string]any{"a": json.Number("1")},
		"due_date":    true,
		"order_index": json.Number("3.0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Priority)
	assert.Equal(t, "12", updated.Title)
	assert.Equal(t, `{"a":1}`, updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "true", *updated.DueDate)
	assert.Equal(t, 3, updated.OrderIndex)
}

func TestTaskServiceUpdateMissing(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)

	_, err := svc.tasks.Update(context.Background(), "nope", map[string]any{"title": "x"})
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestTaskServiceDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)
	ctx := context.Background()

	keep := mustCreateTask(t, svc.tasks, TaskInput{Title: "keep", WeekNumber: 1})
	drop := mustCreateTask(t, svc.tasks, TaskInput{Title: "drop", WeekNumber: 1})

	require.NoError(t, svc.tasks.Delete(ctx, drop.ID))
	require.NoError(t, svc.tasks.Delete(ctx, "never-existed"))

	_, err := svc.tasks.Get(ctx, drop.ID)
	assert.True(t, errors.Is(err, ErrTaskNotFound))

	tasks, err := svc.tasks.ListByWeek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestTaskServiceListByWeekOrdersByIndex(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestServices(gdb)
	ctx := context.Background()

	a := mustCreateTask(t, svc.tasks, TaskInput{Title: "a", WeekNumber: 1})
	b := mustCreateTask(t, svc.tasks, TaskInput{Title: "b", WeekNumber: 1})
	_, err := svc.ordering.Reorder(ctx, []ReorderItem{
		{ID: a.ID, Status: "todo", OrderIndex: 1},
		{ID: b.ID, Status: "todo", OrderIndex: 0},
	})
	require.NoError(t, err)

	tasks, err := svc.tasks.ListByWeek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, a.ID, tasks[1].ID)
}

func TestTextValue(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{input: nil, want: ""},
		{input: " keep ", want: " keep "},
		{input: json.Number("2"), want: "2"},
		{input: 1.5, want: "1.5"},
		{input: false, want: "false"},
		{input: []any{"x", json.Number("1")}, want: `["x",1]`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TextValue(tt.input), "input %v", tt.input)
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		input any
		want  int
		ok    bool
	}{
		{input: 3, want: 3, ok: true},
		{input: float64(4), want: 4, ok: true},
		{input: 4.5, ok: false},
		{input: json.Number("7"), want: 7, ok: true},
		{input: json.Number("3.0"), want: 3, ok: true},
		{input: json.Number("1e2"), want: 100, ok: true},
		{input: json.Number("3.5"), ok: false},
		{input: " 8 ", want: 8, ok: true},
		{input: "eight", ok: false},
		{input: nil, ok: false},
		{input: true, ok: false},
	}

	for _, tt := range tests {
		got, ok := IntValue(tt.input)
		assert.Equal(t, tt.ok, ok, "input %v", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %v", tt.input)
		}
	}
}
