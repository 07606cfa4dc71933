package core

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
)

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-success", StatusClass("PAID"))
	assert.Equal(t, "badge-warning", StatusClass("pending"))
	assert.Equal(t, "badge-info", StatusClass("STORED"))
	assert.Equal(t, "badge-light", StatusClass("whatever"))
}

func TestSafeImageData(t *testing.T) {
	assert.Equal(t, template.URL("data:image/png;base64,AAAA"), safeImageData("data:image/png;base64,AAAA"))
	assert.Empty(t, safeImageData("javascript:alert(1)"))
	assert.Empty(t, safeImageData("data:text/html;base64,AAAA"))
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, 1, m["a"])

	_, err = dict("a")
	require.Error(t, err)
	_, err = dict(1, 2)
	require.Error(t, err)
}

func TestTimeHelpersAcceptTimestamp(t *testing.T) {
	ts := model.Timestamp{Time: time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)}
	assert.NotEmpty(t, friendlyTime(ts))
	assert.NotEmpty(t, friendlyDate(&ts))
	assert.Contains(t, string(timeTag(ts)), `datetime="2025-03-01T08:30:00Z"`)
	assert.Empty(t, friendlyTime(model.Timestamp{}))
	assert.Empty(t, timeTag(nil))
}

func TestRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(string) string { return "x-content" },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "x-content"}}<p>{{.}}</p>{{end}}{{define "page"}}{{renderSection "x" .}}{{end}}`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "page", "<b>"))
	assert.Equal(t, "<p>&lt;b&gt;</p>", buf.String())
}
