package quiz

import (
	"encoding/xml"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gokatarajesh/quiz-board/internal/db/repository"
	"github.com/gokatarajesh/quiz-board/internal/locale"
)

var quizPageTemplate = template.Must(template.New("quiz").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<link rel="canonical" href="{{.URL}}">
<meta property="og:type" content="website">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:url" content="{{.URL}}">
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<ul>
{{range .Categories}}<li>{{.}}</li>
{{end}}</ul>
<p><a href="/">{{.PlayLabel}}</a></p>
</main>
</body>
</html>
`))

type quizPageData struct {
	Lang        string
	Title       string
	Description string
	URL         string
	Categories  []string
	PlayLabel   string
}

// QuizPage handles GET /quiz/{id}: a server-rendered, indexable summary of a stored quiz.
func (h *HTTPHandlers) QuizPage(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "Service unavailable: database not configured", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	stored, err := h.store.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("quiz_id", id).Msg("load quiz failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	refs, err := h.store.Categories(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("quiz_id", id).Msg("load quiz categories failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		titles = append(titles, ref.Title)
	}

	lang := pageLanguage(stored.Title)
	data := quizPageData{
		Lang:        string(lang),
		Title:       stored.Title,
		Description: lang.Pick("Jeopardy quiz with categories: ", "Quiz Jeopardy con categorie: ") + strings.Join(titles, ", "),
		URL:         requestURL(r),
		Categories:  titles,
		PlayLabel:   lang.Pick("Play now", "Gioca ora"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := quizPageTemplate.Execute(w, data); err != nil {
		h.logger.Error().Err(err).Msg("render quiz page failed")
	}
}

func pageLanguage(title string) locale.Language {
	if strings.HasPrefix(title, "Quiz generated") {
		return locale.English
	}
	return locale.Italian
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority"`
}

// Sitemap handles GET /sitemap.xml. Stored quizzes are listed when the store is reachable.
func (h *HTTPHandlers) Sitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimSuffix(h.siteURL, "/")
	today := h.now().UTC().Format("2006-01-02")

	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
			{Loc: base + "/en/", LastMod: today, ChangeFreq: "daily", Priority: "0.8"},
			{Loc: base + "/it/", LastMod: today, ChangeFreq: "daily", Priority: "0.8"},
		},
	}

	if h.store != nil {
		quizzes, err := h.store.ListRecent(r.Context(), repository.MaxRecentQuizzes)
		if err != nil {
			h.logger.Warn().Err(err).Msg("sitemap quiz listing failed")
		}
		for _, q := range quizzes {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        base + "/quiz/" + q.ID,
				LastMod:    q.CreatedAt.UTC().Format("2006-01-02"),
				ChangeFreq: "monthly",
				Priority:   "0.6",
			})
		}
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		h.logger.Error().Err(err).Msg("encode sitemap failed")
	}
}
