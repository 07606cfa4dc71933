// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	"github.com/aquaflow/aquaflow-ui/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":   deps.ContentTemplateFor,
		"friendlyTime":  friendlyTime,
		"friendlyDate":  friendlyDate,
		"timeTag":       timeTag,
		"money":         uiutil.FormatMoney,
		"kg":            uiutil.FormatKG,
		"percent":       uiutil.FormatPercent,
		"statusClass":   StatusClass,
		"truncateText":  uiutil.TruncateWithEllipsis,
		"contains":      strings.Contains,
		"lower":         strings.ToLower,
		"title":         titleCase,
		"add":           func(a, b int) int { return a + b },
		"dict":          dict,
		"safeImageData": safeImageData,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template execution; values are already escaped.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func asTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case model.Timestamp:
		return v.Time
	case *model.Timestamp:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

func friendlyTime(ts any) string { return uiutil.FormatFriendlyDateTime(asTime(ts)) }

func friendlyDate(ts any) string { return uiutil.FormatFriendlyDate(asTime(ts)) }

func timeTag(ts any) template.HTML {
	t0 := asTime(ts)
	if t0.IsZero() {
		return ""
	}
	dt := t0.UTC().Format(time.RFC3339)
	friendly := uiutil.FormatFriendlyDateTime(t0)
	// #nosec G203 - constructed from escaped values only
	return template.HTML(`<time datetime="` + dt + `">` + template.HTMLEscapeString(friendly) + `</time>`)
}

// StatusClass maps batch, stage, inventory, dispatch and payment statuses to badge classes.
func StatusClass(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "paid", "completed", "delivered", "shipped", "processed":
		return "badge-success"
	case "pending", "in_progress", "received":
		return "badge-warning"
	case "stored", "in_storage", "in_transit":
		return "badge-info"
	case "failed", "cancelled", "expired":
		return "badge-danger"
	default:
		return "badge-light"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// dict builds a map from alternating key/value arguments for sub-template calls.
func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// safeImageData admits only base64 PNG data URLs, the format the backend emits for batch
// QR codes. Anything else renders as an empty src.
func safeImageData(src string) template.URL {
	if !strings.HasPrefix(src, "data:image/png;base64,") {
		return ""
	}
	// #nosec G203 - prefix checked above; the remainder is base64 payload
	return template.URL(src)
}
