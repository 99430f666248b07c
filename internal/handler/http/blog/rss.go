package blog

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

// feedItemLimit is how many posts the RSS feed carries.
const feedItemLimit = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// FeedConfig names the site in the feed channel. BaseURL is the public site
// root used to build post links, without a trailing slash.
type FeedConfig struct {
	Title       string
	Description string
	BaseURL     string
}

type FeedHandler struct {
	Svc    *postUC.Service
	Config FeedConfig
	Logger *slog.Logger
}

// ServeHTTP renders the RSS 2.0 feed.
// @Summary      RSS feed of recent posts
// @Description  RSS 2.0 feed over the newest published posts.
// @Tags         blog
// @Produce      xml
// @Success      200 {string} string "RSS 2.0 document"
// @Failure      500 {string} string "Server error"
// @Router       /blog/feed [get]
func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	posts, err := h.Svc.Recent(ctx, feedItemLimit)
	if err != nil {
		logger.Error("failed to build feed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := h.Config.BaseURL + "/blog/" + p.Slug
		pubDate := ""
		if p.PublishedAt != nil {
			pubDate = p.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			Category:    string(p.Category),
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       h.Config.Title,
			Link:        h.Config.BaseURL,
			Description: h.Config.Description,
			Items:       items,
		},
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		logger.Error("failed to write feed header", slog.Any("error", err))
		return
	}
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		logger.Error("failed to encode feed", slog.Any("error", err))
	}
}
