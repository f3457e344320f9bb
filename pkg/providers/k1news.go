package providers

import (
	"strings"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	k1newsProviderID     = "k1news"
	k1newsArticleBaseURL = "https://k1news.ru/news/"

	k1newsLinkSelector      = "a.new__thumb"
	k1newsTitleSelector     = "h1"
	k1newsDateSelector      = "div.news__date"
	k1newsBodySelector      = "div.article__body"
	k1newsParagraphSelector = "p:not([class])"
)

// k1newsSite extracts listing links and articles from k1news.ru.
type k1newsSite struct{}

// NewK1NewsSite builds the k1news.ru site.
func NewK1NewsSite() Site {
	return &k1newsSite{}
}

func (s *k1newsSite) ID() string {
	return k1newsProviderID
}

// ExtractLinks joins the relative href of every listing thumbnail onto the
// article base path. Thumbnails without an href or with a blank one are
// skipped; hrefs are trimmed.
func (s *k1newsSite) ExtractLinks(doc *goquery.Document, cfg Provider) []string {
	base := firstNonEmpty(cfg.ArticleBaseURL, k1newsArticleBaseURL)

	var links []string
	doc.Find(k1newsLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, base+strings.TrimSpace(href))
	})
	return links
}

// ParseArticle reads the title, date and body of an article page. Paragraphs
// carrying a class are ads or boilerplate and are left out; the remaining
// paragraph texts are joined without a separator.
func (s *k1newsSite) ParseArticle(doc *goquery.Document, cfg Provider) (domain.ArticleRecord, error) {
	title := doc.Find(k1newsTitleSelector).First()
	if title.Length() == 0 {
		return domain.ArticleRecord{}, missingField("title")
	}

	dateNode := doc.Find(k1newsDateSelector).First()
	if dateNode.Length() == 0 {
		return domain.ArticleRecord{}, dateFormatError("date container not found")
	}
	date, err := ParseDate(dateNode.Text(), cfg.location())
	if err != nil {
		return domain.ArticleRecord{}, err
	}

	body := doc.Find(k1newsBodySelector).First()
	if body.Length() == 0 {
		return domain.ArticleRecord{}, missingField("body")
	}

	var text strings.Builder
	body.Find(k1newsParagraphSelector).Each(func(_ int, p *goquery.Selection) {
		text.WriteString(p.Text())
	})

	return domain.ArticleRecord{
		Title:  strings.TrimSpace(title.Text()),
		Author: domain.NotFound,
		Topics: domain.NotFound,
		Date:   date,
		Text:   text.String(),
	}, nil
}
