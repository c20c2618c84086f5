package http

import (
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/blaize/bookshelf"
)

// SitemapNamespace is the sitemap protocol namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DefaultSiteURL is the public site the sitemap points at.
const DefaultSiteURL = "https://blaize.me"

// BuildSitemap generates a sitemap listing the site root, every book page
// and every chapter page of shelf. Books keep bookshelf order; chapters are
// sorted by ID. A nil shelf yields only the root.
func BuildSitemap(siteURL string, shelf *bookshelf.Bookshelf) *etree.Document {
	site := strings.TrimSuffix(siteURL, "/")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", SitemapNamespace)

	addURL(urlset, site, "", "weekly")
	if shelf == nil {
		return doc
	}

	lastmod := ""
	if !shelf.LastUpdated.IsZero() {
		lastmod = shelf.LastUpdated.UTC().Format("2006-01-02")
	}

	for _, book := range shelf.Books {
		bookURL := site + "/bookshelf/" + book.ID
		addURL(urlset, bookURL, lastmod, "daily")

		chapters := shelf.ChapterIndex[book.ID]
		ids := make([]string, 0, len(chapters))
		for id := range chapters {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			addURL(urlset, bookURL+"/"+id, lastmod, "daily")
		}
	}

	return doc
}

// WriteSitemap writes the indented sitemap document to w.
func WriteSitemap(w io.Writer, siteURL string, shelf *bookshelf.Bookshelf) error {
	doc := BuildSitemap(siteURL, shelf)
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func addURL(urlset *etree.Element, loc, lastmod, changefreq string) {
	u := urlset.CreateElement("url")
	u.CreateElement("loc").SetText(loc)
	if lastmod != "" {
		u.CreateElement("lastmod").SetText(lastmod)
	}
	u.CreateElement("changefreq").SetText(changefreq)
	u.CreateElement("priority").SetText("0.5")
}
