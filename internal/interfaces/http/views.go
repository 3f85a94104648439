package http

import (
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"github.com/uranusgroup/uranus-web/web"
)

// SiteInfo textos de cabecera del sitio y del back-office.
type SiteInfo struct {
	Title      string
	Header     string
	IndexTitle string
	BaseURL    string
}

// NewViews motor html/template sobre las plantillas embebidas.
func NewViews() *html.Engine {
	engine := html.NewFileSystem(nethttp.FS(web.Templates()), ".html")
	engine.AddFuncMap(templateFuncs())
	return engine
}

func templateFuncs() map[string]interface{} {
	return map[string]interface{}{
		"date":     func(v interface{}) string { return formatTime(v, "02/01/2006") },
		"datetime": func(v interface{}) string { return formatTime(v, "02/01/2006 15:04") },
		"price": func(d *decimal.Decimal) string {
			if d == nil {
				return ""
			}
			return d.StringFixed(0)
		},
		"add":    func(a, b int) int { return a + b },
		"isTrue": func(s string) bool { return s == "true" },
		"excerpt": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return strings.TrimSpace(string(r[:n])) + "…"
		},
		"badge": statusBadge,
	}
}

func formatTime(v interface{}, layout string) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(layout)
	}
	return ""
}

// statusBadge clase Bootstrap de un estado de solicitud, ticket o mensaje.
func statusBadge(status string) string {
	switch status {
	case "pending", "open", "new", "draft":
		return "warning"
	case "in_progress", "read":
		return "info"
	case "completed", "resolved", "replied", "published":
		return "success"
	case "cancelled", "closed", "archived":
		return "secondary"
	}
	return "light"
}
