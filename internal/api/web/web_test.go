package web

import (
	"bytes"
	"html/template"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates(time.UTC)
	require.NoError(t, err)

	for _, name := range []string{"layout.html", "ranking.html", "prenotazioni.html", "admin_terrains.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
	assert.NotNil(t, tmpl.Lookup("terrain_fields"))
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("map.js")
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), "/api/terreni/availability")
}

func TestFuncs(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	funcs := Funcs(rome)

	at := time.Date(2026, 7, 15, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "15/07/2026 16:05", funcs["localTime"].(func(time.Time) string)(at))
	assert.Equal(t, "2026-07-15T16:05", funcs["inputTime"].(func(time.Time) string)(at))
	assert.Equal(t, []int{1, 2, 3}, funcs["seq"].(func(int) []int)(3))
	assert.Empty(t, funcs["seq"].(func(int) []int)(0))
}

func TestFuncs_Markdown(t *testing.T) {
	markdown := Funcs(time.UTC)["markdown"].(func(string) template.HTML)

	out := string(markdown("**Fuoco** di bivacco\n\n<script>alert(1)</script>\n\n- legna\n- fiammiferi"))

	assert.Contains(t, out, "<strong>Fuoco</strong>")
	assert.Contains(t, out, "<li>legna</li>")
	assert.NotContains(t, out, "<script>")
}

func TestFuncs_JSONInTemplate(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(Funcs(time.UTC)).Parse(`<script>var p = {{json .}};</script>`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, [][2]float64{{45.1, 11.2}}))

	assert.Equal(t, `<script>var p = [[45.1,11.2]];</script>`, buf.String())
}
