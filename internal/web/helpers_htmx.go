package web

import (
	"net/http"
	"strings"
)

func isHTMX(r *http.Request) bool {
	return strings.ToLower(r.Header.Get("HX-Request")) == "true"
}

// render writes the full page, or only the named partial when htmx asks
// for a fragment.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page, partial string, view any) {
	var err error
	if partial != "" && isHTMX(r) {
		err = s.templates.RenderPartial(w, partial, view)
	} else {
		err = s.templates.Render(w, page, view)
	}
	if err != nil {
		s.log.WithError(err).WithField("template", page).Error("render")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
