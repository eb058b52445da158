package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/platinummonkey/novabill/pkg/billing"
	"github.com/platinummonkey/novabill/pkg/httputil"
	"github.com/platinummonkey/novabill/pkg/observability"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Status billing.Status
	Prices []billing.PriceLine
}

// index renders the demo page. Prices come from the cached table and fall back
// to placeholders when pricing is not set up or the fetch fails.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Status: s.service.Status(),
		Prices: s.service.PriceLines(r.Context()),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to render index")
		httputil.WriteInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
