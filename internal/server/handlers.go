package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/pgconfig/internal/catalog"
	"github.com/alfredjeanlab/pgconfig/internal/conf"
	"github.com/alfredjeanlab/pgconfig/internal/diff"
	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// basePage carries the fields every template needs.
type basePage struct {
	Title string
	Year  int
}

func newBasePage(title string) basePage {
	return basePage{Title: title, Year: time.Now().Year()}
}

type paramPage struct {
	basePage
	Name    string
	Details *model.Parameter
	Entries []catalog.HistoryEntry
	Names   []string
}

type changesPage struct {
	basePage
	From     model.Version
	To       model.Version
	Versions []model.Version
	Stats    diff.Stats
	Added    []diff.Change
	Removed  []diff.Change
	Changed  []diff.Change
}

type customPage struct {
	basePage
	Version  model.Version
	Versions []model.Version
	Example  string
	Result   *diff.CustomResult
}

// customExample is the textarea placeholder on the custom comparison form.
const customExample = `# -----------------------------
# PostgreSQL configuration file
# -----------------------------

# - Connection Settings -

listen_addresses = '*'          # what IP address(es) to listen on
#port = 5432                    # (change requires restart)
`

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.defaultChangesPath(), http.StatusFound)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about.html", newBasePage("About"))
}

func (s *Server) handleParamIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/param/"+defaultParam, http.StatusFound)
}

// handleParam renders one parameter's history across every supported
// version. Unknown names render an empty history rather than a 404, like a
// parameter that never existed in any version.
func (s *Server) handleParam(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	hist := s.catalog.History(name)
	s.render(w, http.StatusOK, "param.html", paramPage{
		basePage: newBasePage(name),
		Name:     name,
		Details:  hist.Details,
		Entries:  hist.Entries,
		Names:    s.catalog.ParameterNames(),
	})
}

func (s *Server) handleChangesIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.defaultChangesPath(), http.StatusFound)
}

// handleChanges renders the comparison between two versions. Identical
// identifiers fall back to the default comparison before any alias
// handling; aliased identifiers (16beta1) redirect permanently to their
// canonical URL; unknown versions and reversed order fall back to the
// default comparison.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	raw1, raw2 := r.PathValue("v1"), r.PathValue("v2")
	if raw1 == raw2 {
		http.Redirect(w, r, s.defaultChangesPath(), http.StatusFound)
		return
	}

	canon1, canon2 := model.Redirect(raw1), model.Redirect(raw2)
	if canon1 != raw1 || canon2 != raw2 {
		http.Redirect(w, r, fmt.Sprintf("/param/change/%s/%s", canon1, canon2), http.StatusMovedPermanently)
		return
	}

	older, err := model.ParseVersion(raw1)
	if err != nil {
		http.Redirect(w, r, s.defaultChangesPath(), http.StatusFound)
		return
	}
	newer, err := model.ParseVersion(raw2)
	if err != nil {
		http.Redirect(w, r, s.defaultChangesPath(), http.StatusFound)
		return
	}

	res, err := s.catalog.Compare(older, newer)
	if err != nil {
		http.Redirect(w, r, s.defaultChangesPath(), http.StatusFound)
		return
	}

	page := changesPage{
		basePage: newBasePage(fmt.Sprintf("Changes %s to %s", older, newer)),
		From:     older,
		To:       newer,
		Versions: model.Supported(),
		Stats:    res.Stats(),
	}
	for _, c := range res.Changes {
		switch {
		case c.Added():
			page.Added = append(page.Added, c)
		case c.Removed():
			page.Removed = append(page.Removed, c)
		default:
			page.Changed = append(page.Changed, c)
		}
	}
	s.render(w, http.StatusOK, "changes.html", page)
}

func (s *Server) handleCustomIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/custom/"+model.Latest().String(), http.StatusFound)
}

func (s *Server) handleCustomForm(w http.ResponseWriter, r *http.Request) {
	v, err := model.ParseVersion(r.PathValue("version"))
	if err != nil {
		http.Redirect(w, r, "/custom/"+model.Latest().String(), http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, "custom.html", customPage{
		basePage: newBasePage("Custom configuration"),
		Version:  v,
		Versions: model.Supported(),
		Example:  customExample,
	})
}

func (s *Server) handleCustomSubmit(w http.ResponseWriter, r *http.Request) {
	v, err := model.ParseVersion(r.PathValue("version"))
	if err != nil {
		http.Redirect(w, r, "/custom/"+model.Latest().String(), http.StatusFound)
		return
	}

	page := customPage{
		basePage: newBasePage("Custom configuration"),
		Version:  v,
		Versions: model.Supported(),
		Example:  customExample,
	}

	raw := r.PostFormValue("config_raw")
	if strings.TrimSpace(raw) == "" {
		// Nothing submitted: show the form again.
		s.render(w, http.StatusOK, "custom.html", page)
		return
	}

	submitted, err := conf.ParseString(raw)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "could not parse the submitted configuration")
		return
	}
	result, err := s.catalog.CompareCustom(v, submitted)
	if err != nil {
		s.logger.Error("custom comparison failed", "version", v, "error", err)
		s.renderError(w, http.StatusInternalServerError, "comparison failed")
		return
	}
	page.Result = result
	s.render(w, http.StatusOK, "custom.html", page)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"versions": len(s.catalog.Loaded()),
	})
}

func (s *Server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context(), "admin"); err != nil {
		s.logger.Error("catalog reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "reloaded",
		"versions": len(s.catalog.Loaded()),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, http.StatusNotFound, "page not found")
}
