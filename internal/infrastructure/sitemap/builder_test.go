package sitemap

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
)

func TestEncode(t *testing.T) {
	out, err := Builder{Indent: true}.Encode([]dto.SitemapEntry{
		{Loc: "https://uranus.test/", LastMod: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ChangeFreq: "weekly", Priority: 1},
		{Loc: ""},
		{Loc: "https://uranus.test/blog/iso-9001"},
	})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "urlset", root.Tag)
	assert.Equal(t, Namespace, root.SelectAttrValue("xmlns", ""))

	urls := root.SelectElements("url")
	require.Len(t, urls, 2)
	assert.Equal(t, "https://uranus.test/", urls[0].SelectElement("loc").Text())
	assert.Equal(t, "2024-03-01", urls[0].SelectElement("lastmod").Text())
	assert.Equal(t, "weekly", urls[0].SelectElement("changefreq").Text())
	assert.Equal(t, "1.0", urls[0].SelectElement("priority").Text())
	assert.Nil(t, urls[1].SelectElement("lastmod"))
}
