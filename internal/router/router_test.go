package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/Sg-suraj/roadmap-tracker/internal/handler"
	"github.com/Sg-suraj/roadmap-tracker/internal/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"
)

func newTestAPI(t *testing.T) *handler.API {
	t.Helper()

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: dsn, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	return handler.NewAPI(gdb, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeTemplates(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index.html": `<h1>{{.siteName}}</h1>{{range .weeks}}<li>{{.Title}} {{.Progress.Percentage}}%</li>{{end}}`,
		"board.html": `<h1>{{.week.Title}}</h1><div>{{.week.Goal}}</div>{{range .columns}}<section>{{.Label}}:{{len .Tasks}}</section>{{end}}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write template %s: %v", name, err)
		}
	}
	return filepath.Join(dir, "*.html")
}

func TestSetupRouterPing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := SetupRouter(newTestAPI(t), Options{SessionSecret: "test-secret"})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "pong") {
		t.Fatalf("unexpected body, got %q", rr.Body.String())
	}
}

func TestSetupRouterRendersPages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := SetupRouter(newTestAPI(t), Options{
		SessionSecret: "test-secret",
		TemplateGlob:  writeTemplates(t),
		StoreTimeout:  time.Second,
	})

	create := httptest.NewRequest(http.MethodPost, "/api/week", strings.NewReader(`{"title":"Launch","goal":"*ship*","week_number":1}`))
	create.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, create)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<li>Launch 0%</li>") {
		t.Fatalf("unexpected dashboard (%d): %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/week/1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<em>ship</em>") || !strings.Contains(body, "In Progress:0") {
		t.Fatalf("unexpected board: %s", body)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/week/5", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<h1>Week 5</h1>") {
		t.Fatalf("expected default week board, got (%d): %s", rr.Code, rr.Body.String())
	}
}

func TestSetupRouterServesStaticFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staticDir := t.TempDir()
	fileContent := []byte("console.log('board')")
	if err := os.WriteFile(filepath.Join(staticDir, "main.js"), fileContent, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r := SetupRouter(newTestAPI(t), Options{SessionSecret: "test-secret", StaticDir: staticDir})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/main.js", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != string(fileContent) {
		t.Fatalf("unexpected body, got %q", rr.Body.String())
	}
}

func TestSetupRouterMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := SetupRouter(newTestAPI(t), Options{SessionSecret: "test-secret", Metrics: metrics.New()})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/weeks", nil))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `route="/api/weeks"`) {
		t.Fatalf("expected /api/weeks in metrics output:\n%s", rr.Body.String())
	}

	withoutMetrics := SetupRouter(newTestAPI(t), Options{SessionSecret: "test-secret"})
	rr = httptest.NewRecorder()
	withoutMetrics.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected /metrics disabled, got %d", rr.Code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "http://a.test", wantHeader: "*"},
		{name: "default", origins: nil, origin: "http://a.test", wantHeader: "*"},
		{name: "listed", origins: []string{"http://a.test"}, origin: "http://a.test", wantHeader: "http://a.test"},
		{name: "not listed", origins: []string{"http://a.test"}, origin: "http://b.test", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.GET("/api/weeks", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/api/weeks", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Fatalf("expected allow-origin %q, got %q", tt.wantHeader, got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := SetupRouter(newTestAPI(t), Options{SessionSecret: "test-secret", CORSAllowOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/reorder", nil)
	req.Header.Set("Origin", "http://board.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Fatalf("expected POST to be allowed, got %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var hasDeadline bool
	r := gin.New()
	r.Use(RequestTimeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !hasDeadline {
		t.Fatal("expected request context to carry a deadline")
	}
}
