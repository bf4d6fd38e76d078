package router

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sg-suraj/roadmap-tracker/internal/handler"
	"github.com/Sg-suraj/roadmap-tracker/internal/metrics"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "roadmap_session"

// Options 描述路由需要的外部设置
type Options struct {
	SessionSecret    string
	TemplateGlob     string
	StaticDir        string
	StoreTimeout     time.Duration
	CORSAllowOrigins []string
	// Metrics 为 nil 时不注册 /metrics
	Metrics *metrics.Metrics
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(CORS(opts.CORSAllowOrigins))

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 60 * 60, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板
	if hasTemplates(opts.TemplateGlob) {
		r.LoadHTMLGlob(opts.TemplateGlob)
	}

	// 静态文件服务
	if dir := strings.TrimSpace(opts.StaticDir); dir != "" {
		r.Static("/static", dir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	timeout := RequestTimeout(opts.StoreTimeout)

	pages := r.Group("", timeout)
	{
		pages.GET("/", api.ShowDashboard)
		pages.GET("/week/:week_number", api.ShowWeekBoard)
	}

	apiGroup := r.Group("/api", timeout)
	{
		apiGroup.GET("/weeks", api.ListWeeks)
		apiGroup.POST("/week", api.CreateWeek)
		apiGroup.GET("/week/:week_number", api.GetWeek)
		apiGroup.PUT("/week/:week_number", api.UpdateWeek)
		apiGroup.GET("/week/:week_number/progress", api.GetWeekProgress)
		apiGroup.GET("/week/:week_number/tasks", api.GetWeekTasks)

		apiGroup.POST("/task", api.CreateTask)
		apiGroup.GET("/task/:id", api.GetTask)
		apiGroup.PUT("/task/:id", api.UpdateTask)
		apiGroup.DELETE("/task/:id", api.DeleteTask)
		apiGroup.POST("/tasks/reorder", api.ReorderTasks)
	}

	return r
}

// hasTemplates 模板目录缺失时跳过加载，LoadHTMLGlob 在无匹配时会 panic
func hasTemplates(glob string) bool {
	glob = strings.TrimSpace(glob)
	if glob == "" {
		return false
	}
	matches, err := filepath.Glob(glob)
	if err != nil || len(matches) == 0 {
		return false
	}
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
