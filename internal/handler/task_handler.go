package handler

import (
	"net/http"

	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

type taskCreatePayload struct {
	Title       flexString `json:"title"`
	Description flexString `json:"description"`
	Priority    flexString `json:"priority"`
	DueDate     flexString `json:"due_date"`
	Status      flexString `json:"status"`
	WeekNumber  *flexInt   `json:"week_number"`
}

type reorderEntry struct {
	ID         string   `json:"id"`
	Status     *string  `json:"status"`
	OrderIndex *flexInt `json:"order_index"`
}

type reorderPayload struct {
	Tasks []reorderEntry `json:"tasks"`
}

// CreateTask 新建任务，追加到 (week_number, status) 列末尾
func (a *API) CreateTask(c *gin.Context) {
	var payload taskCreatePayload
	if !bindJSON(c, &payload, "invalid request payload") {
		return
	}
	if payload.WeekNumber == nil {
		respondError(c, http.StatusBadRequest, "week_number is required")
		return
	}

	task, err := a.tasks.Create(c.Request.Context(), service.TaskInput{
		Title:       string(payload.Title),
		Description: string(payload.Description),
		Priority:    string(payload.Priority),
		DueDate:     string(payload.DueDate),
		Status:      string(payload.Status),
		WeekNumber:  int(*payload.WeekNumber),
	})
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskToPayload(*task))
}

// GetTask 返回单个任务
func (a *API) GetTask(c *gin.Context) {
	task, err := a.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, taskToPayload(*task))
}

// UpdateTask 局部更新任务，请求体中的 id 会被忽略
func (a *API) UpdateTask(c *gin.Context) {
	fields, err := decodeObject(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	task, err := a.tasks.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, taskToPayload(*task))
}

// DeleteTask 删除任务，目标不存在同样返回成功
func (a *API) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := a.tasks.Delete(c.Request.Context(), id); err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_id": id})
}

// ReorderTasks 批量写入拖拽后的位置，全部成功或全部不生效
func (a *API) ReorderTasks(c *gin.Context) {
	var payload reorderPayload
	if !bindJSON(c, &payload, "invalid request payload") {
		return
	}

	items := make([]service.ReorderItem, 0, len(payload.Tasks))
	for _, entry := range payload.Tasks {
		if entry.ID == "" || entry.Status == nil || entry.OrderIndex == nil {
			respondError(c, http.StatusBadRequest, "each task requires id, status and order_index")
			return
		}
		items = append(items, service.ReorderItem{
			ID:         entry.ID,
			Status:     *entry.Status,
			OrderIndex: int(*entry.OrderIndex),
		})
	}

	count, err := a.ordering.Reorder(c.Request.Context(), items)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "updated_count": count})
}
