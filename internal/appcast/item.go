package appcast

import (
	"strconv"

	"github.com/beevik/etree"
	"update-appcast/internal/config"
)

// EnclosureType is the media type advertised for every download.
const EnclosureType = "application/octet-stream"

// NewItem builds a release record for rel. Sparkle fields use prefix,
// normally Feed.Prefix(). Child order is fixed:
//
//	<item>
//	  <title/> <pubDate/> <sparkle:version/> <sparkle:shortVersionString/>
//	  <sparkle:minimumSystemVersion/> <enclosure/>
//	</item>
func NewItem(rel config.Release, prefix string) *etree.Element {
	item := etree.NewElement(itemTag)

	item.CreateElement("title").SetText(rel.Version)
	item.CreateElement("pubDate").SetText(rel.PubDate)
	item.CreateElement(qualify(prefix, "version")).SetText(rel.EffectiveBuildVersion())
	item.CreateElement(qualify(prefix, "shortVersionString")).SetText(rel.Version)
	item.CreateElement(qualify(prefix, "minimumSystemVersion")).SetText(rel.MinSystemVersion)

	newElementWithAttrs(item, "enclosure", []etree.Attr{
		{Key: "url", Value: rel.URL},
		{Key: "length", Value: strconv.FormatInt(rel.Length, 10)},
		{Key: "type", Value: EnclosureType},
		{Space: prefix, Key: "edSignature", Value: rel.Signature},
	})

	return item
}

// newElementWithAttrs creates a child of parent carrying attrs in the given order.
func newElementWithAttrs(parent *etree.Element, tag string, attrs []etree.Attr) *etree.Element {
	e := parent.CreateElement(tag)
	for _, a := range attrs {
		e.CreateAttr(qualify(a.Space, a.Key), a.Value)
	}
	return e
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
