package handler

import (
	"net/http"

	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

type weekCreatePayload struct {
	Title      string   `json:"title"`
	Goal       string   `json:"goal"`
	WeekNumber *flexInt `json:"week_number"`
}

type weekUpdatePayload struct {
	Title *string `json:"title"`
	Goal  *string `json:"goal"`
}

// ListWeeks 返回全部周（按周序号升序），每一周附带进度
func (a *API) ListWeeks(c *gin.Context) {
	ctx := c.Request.Context()

	weeks, err := a.weeks.List(ctx)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	numbers := make([]int, 0, len(weeks))
	for _, week := range weeks {
		numbers = append(numbers, week.WeekNumber)
	}

	progress, err := a.progress.ProgressByWeek(ctx, numbers)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	items := make([]gin.H, 0, len(weeks))
	for _, week := range weeks {
		item := weekToPayload(week)
		item["progress"] = progressToPayload(progress[week.WeekNumber])
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

// CreateWeek 新建一周，week_number 已存在时返回 409
func (a *API) CreateWeek(c *gin.Context) {
	var payload weekCreatePayload
	if !bindJSON(c, &payload, "invalid request payload") {
		return
	}
	if payload.WeekNumber == nil {
		respondError(c, http.StatusBadRequest, "week_number is required")
		return
	}

	week, err := a.weeks.Create(c.Request.Context(), service.WeekInput{
		WeekNumber: int(*payload.WeekNumber),
		Title:      payload.Title,
		Goal:       payload.Goal,
	})
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusCreated, weekToPayload(*week))
}

// GetWeek 返回单个周的标题与目标
func (a *API) GetWeek(c *gin.Context) {
	weekNumber, ok := parseWeekParam(c)
	if !ok {
		return
	}

	week, err := a.weeks.GetByNumber(c.Request.Context(), weekNumber)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, weekToPayload(*week))
}

// UpdateWeek 只修改请求中出现的 title/goal
func (a *API) UpdateWeek(c *gin.Context) {
	weekNumber, ok := parseWeekParam(c)
	if !ok {
		return
	}

	var payload weekUpdatePayload
	if !bindJSON(c, &payload, "invalid request payload") {
		return
	}

	week, err := a.weeks.Update(c.Request.Context(), weekNumber, service.WeekPatch{
		Title: payload.Title,
		Goal:  payload.Goal,
	})
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, weekToPayload(*week))
}

// GetWeekProgress 返回某周的进度；周本身不存在时返回全 0
func (a *API) GetWeekProgress(c *gin.Context) {
	weekNumber, ok := parseWeekParam(c)
	if !ok {
		return
	}

	progress, err := a.progress.WeekProgress(c.Request.Context(), weekNumber)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, progressToPayload(progress))
}

// GetWeekTasks 返回某周全部任务，按 order_index 升序
func (a *API) GetWeekTasks(c *gin.Context) {
	weekNumber, ok := parseWeekParam(c)
	if !ok {
		return
	}

	tasks, err := a.tasks.ListByWeek(c.Request.Context(), weekNumber)
	if err != nil {
		a.failRequest(c, err)
		return
	}

	items := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToPayload(task))
	}

	c.JSON(http.StatusOK, items)
}
