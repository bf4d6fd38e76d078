package handler

import (
	"log/slog"

	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const siteName = "Roadmap Tracker"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	weeks    weekProvider
	tasks    taskProvider
	progress progressProvider
	ordering taskOrderer
	logger   *slog.Logger
}

// NewAPI constructs a handler set with shared services.
// gdb 由调用方打开并负责关闭。
func NewAPI(gdb *gorm.DB, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}

	ordering := service.NewOrderingService(gdb)
	return &API{
		weeks:    service.NewWeekService(gdb),
		tasks:    service.NewTaskService(gdb, ordering),
		progress: service.NewProgressService(gdb),
		ordering: ordering,
		logger:   logger,
	}
}

func (a *API) log() *slog.Logger {
	if a.logger == nil {
		return slog.Default()
	}
	return a.logger
}

// renderHTML 渲染页面时附加站点名称与最近打开的周
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = siteName
	}
	if _, exists := payload["lastWeek"]; !exists {
		payload["lastWeek"] = lastOpenedWeek(c)
	}

	c.HTML(status, template, payload)
}

func lastOpenedWeek(c *gin.Context) int {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return 0
	}
	value, _ := sessions.Default(c).Get(lastWeekSessionKey).(int)
	return value
}
