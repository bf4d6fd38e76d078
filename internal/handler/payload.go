package handler

import (
	"time"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func weekToPayload(week db.Week) gin.H {
	return gin.H{
		"id":          week.ID,
		"week_number": week.WeekNumber,
		"title":       week.Title,
		"goal":        week.Goal,
	}
}

func progressToPayload(p service.Progress) gin.H {
	return gin.H{
		"total":       p.Total,
		"done":        p.Done,
		"todo":        p.Todo,
		"in_progress": p.InProgress,
		"percentage":  p.Percentage,
	}
}

// taskToPayload 输出任务文档：Extra 中的自由字段与固定字段平铺在同一层
func taskToPayload(task db.Task) gin.H {
	payload := gin.H{}
	for key, value := range task.Extra {
		payload[key] = value
	}

	var dueDate any
	if task.DueDate != nil {
		dueDate = *task.DueDate
	}

	var createdAt any
	if !task.CreatedAt.IsZero() {
		createdAt = task.CreatedAt.UTC().Format(time.RFC3339)
	}

	payload["id"] = task.ID
	payload["title"] = task.Title
	payload["description"] = task.Description
	payload["priority"] = task.Priority
	payload["due_date"] = dueDate
	payload["status"] = task.Status
	payload["week_number"] = task.WeekNumber
	payload["created_at"] = createdAt
	payload["order_index"] = task.OrderIndex
	return payload
}
