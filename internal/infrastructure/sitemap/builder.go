// Package sitemap serializa sitemap.xml (protocolo sitemaps.org 0.9) con etree.
package sitemap

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/site"
)

// Namespace del protocolo sitemap.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Builder implementa site.SitemapEncoder.
type Builder struct {
	Indent bool
}

var _ site.SitemapEncoder = Builder{}

// Encode genera <urlset> con un <url> por entrada. Las entradas sin Loc se omiten.
func (b Builder) Encode(entries []dto.SitemapEntry) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", Namespace)

	for _, e := range entries {
		if e.Loc == "" {
			continue
		}
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(e.Loc)
		if !e.LastMod.IsZero() {
			u.CreateElement("lastmod").SetText(e.LastMod.UTC().Format("2006-01-02"))
		}
		if e.ChangeFreq != "" {
			u.CreateElement("changefreq").SetText(e.ChangeFreq)
		}
		if e.Priority > 0 {
			u.CreateElement("priority").SetText(strconv.FormatFloat(e.Priority, 'f', 1, 64))
		}
	}

	if b.Indent {
		doc.Indent(2)
	}
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("sitemap: serializar: %w", err)
	}
	return out.Bytes(), nil
}
