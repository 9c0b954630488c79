package http

import (
	"context"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/bloom"
)

// maxSitemapDepth bounds nested <sitemapindex> documents.
const maxSitemapDepth = 3

// URL dedup sizing. A sitemap holds at most 50,000 URLs.
const (
	expectedURLs = 50000
	urlFPRate    = 1e-7
)

// sitemapURLs fetches the sitemap at u and returns the article URLs it
// lists, following <sitemapindex> entries. Duplicates keep their first
// position and lose their fragment.
func (s *Source) sitemapURLs(ctx context.Context, u *url.URL) ([]string, error) {
	var urls []string
	articles := bloom.NewURLSet(expectedURLs, urlFPRate)
	sitemaps := bloom.NewURLSet(expectedURLs, urlFPRate)

	var walk func(u *url.URL, depth int) error
	walk = func(u *url.URL, depth int) error {
		if !sitemaps.Visit(u) {
			return nil
		}

		body, _, err := s.fetch(ctx, u)
		if err != nil {
			return err
		}
		root, err := parseSitemap(u, body)
		if err != nil {
			return err
		}

		if root.Tag == "sitemapindex" {
			if depth >= maxSitemapDepth {
				return kbase.Errorf(kbase.EINVALID, "%s: sitemap index nested too deeply", u)
			}
			for _, loc := range locs(root, "sitemap") {
				child, err := u.Parse(loc)
				if err != nil {
					return kbase.Errorf(kbase.EMALFORMED, "%s: invalid sitemap URL %q", u, loc)
				}
				if err := walk(child, depth+1); err != nil {
					return err
				}
			}
			return nil
		}

		for _, loc := range locs(root, "url") {
			ref, err := u.Parse(loc)
			if err != nil {
				return kbase.Errorf(kbase.EMALFORMED, "%s: invalid article URL %q", u, loc)
			}
			if articles.Visit(ref) {
				urls = append(urls, bloom.Key(ref))
			}
		}
		return nil
	}

	if err := walk(u, 0); err != nil {
		return nil, err
	}
	return urls, nil
}

func parseSitemap(u *url.URL, body string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, kbase.Errorf(kbase.EMALFORMED, "%s: parsing sitemap XML: %v", u, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, kbase.Errorf(kbase.EMALFORMED, "%s: empty sitemap XML", u)
	}
	return root, nil
}

// locs returns the non-blank <loc> texts of root's child elements named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			out = append(out, text)
		}
	}
	return out
}
