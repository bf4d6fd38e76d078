package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	lastWeekSessionKey = "last_week"
	defaultWeekGoal    = "No goal set for this week."
)

type weekCard struct {
	WeekNumber int
	Title      string
	Goal       template.HTML
	Progress   service.Progress
}

type taskCard struct {
	ID          string
	Title       string
	Description template.HTML
	Priority    string
	DueDate     string
	Status      string
	OrderIndex  int
}

type boardColumn struct {
	Status string
	Label  string
	Tasks  []taskCard
}

// ShowDashboard 渲染首页：按周序号列出所有周及其进度
func (a *API) ShowDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	weeks, err := a.weeks.List(ctx)
	if err != nil {
		a.renderPageError(c, "index.html", err)
		return
	}

	numbers := make([]int, 0, len(weeks))
	for _, week := range weeks {
		numbers = append(numbers, week.WeekNumber)
	}
	progress, err := a.progress.ProgressByWeek(ctx, numbers)
	if err != nil {
		a.renderPageError(c, "index.html", err)
		return
	}

	cards := make([]weekCard, 0, len(weeks))
	for _, week := range weeks {
		cards = append(cards, weekCard{
			WeekNumber: week.WeekNumber,
			Title:      week.Title,
			Goal:       markdownOrText(week.Goal),
			Progress:   progress[week.WeekNumber],
		})
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title":     "Dashboard",
		"weeks":     cards,
		"page_type": "dashboard",
	})
}

// ShowWeekBoard 渲染某一周的看板。周不存在时使用默认标题与目标
func (a *API) ShowWeekBoard(c *gin.Context) {
	weekNumber, ok := parseWeekParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	week, err := a.weeks.GetByNumber(ctx, weekNumber)
	switch {
	case errors.Is(err, service.ErrWeekNotFound):
		week = defaultWeek(weekNumber)
	case err != nil:
		a.renderPageError(c, "board.html", err)
		return
	}

	tasks, err := a.tasks.ListByWeek(ctx, weekNumber)
	if err != nil {
		a.renderPageError(c, "board.html", err)
		return
	}

	rememberWeek(c, weekNumber)

	a.renderHTML(c, http.StatusOK, "board.html", gin.H{
		"title":     week.Title,
		"week":      weekCard{WeekNumber: week.WeekNumber, Title: week.Title, Goal: markdownOrText(week.Goal)},
		"columns":   buildColumns(tasks),
		"page_type": "week_board",
	})
}

func (a *API) renderPageError(c *gin.Context, template string, err error) {
	status, message := statusFor(err)
	a.logFailure(c, status, err)
	a.renderHTML(c, status, template, gin.H{
		"title": "Error",
		"error": message,
	})
}

func defaultWeek(weekNumber int) *db.Week {
	return &db.Week{
		WeekNumber: weekNumber,
		Title:      fmt.Sprintf("Week %d", weekNumber),
		Goal:       defaultWeekGoal,
	}
}

// buildColumns 按状态分为三列；未知状态与统计口径一致，归入 todo 列
func buildColumns(tasks []db.Task) []boardColumn {
	columns := []boardColumn{
		{Status: db.StatusTodo, Label: "To Do"},
		{Status: db.StatusInProgress, Label: "In Progress"},
		{Status: db.StatusDone, Label: "Done"},
	}

	for _, task := range tasks {
		idx := 0
		switch task.Status {
		case db.StatusInProgress:
			idx = 1
		case db.StatusDone:
			idx = 2
		}

		card := taskCard{
			ID:          task.ID,
			Title:       task.Title,
			Description: markdownOrText(task.Description),
			Priority:    task.Priority,
			Status:      task.Status,
			OrderIndex:  task.OrderIndex,
		}
		if task.DueDate != nil {
			card.DueDate = *task.DueDate
		}
		columns[idx].Tasks = append(columns[idx].Tasks, card)
	}

	return columns
}

func rememberWeek(c *gin.Context, weekNumber int) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	session := sessions.Default(c)
	session.Set(lastWeekSessionKey, weekNumber)
	_ = session.Save()
}
