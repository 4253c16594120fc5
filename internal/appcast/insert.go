package appcast

import (
	"github.com/beevik/etree"
	"update-appcast/internal/logger"
)

// Insert places item immediately before the channel's first <item>, or
// appends it when the channel has none. Only the tag is compared; feeds are
// assumed to already list releases newest first.
//
// It returns the position of item among the channel's child elements.
func (f *Feed) Insert(item *etree.Element) int {
	pos := 0
	for i, tok := range f.Channel.Child {
		child, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if isItem(child) {
			f.Channel.InsertChildAt(i, item)
			logger.Debug("[DEBUG] Inserted <item> before existing release at element %d\n", pos)
			return pos
		}
		pos++
	}

	f.Channel.AddChild(item)
	logger.Debug("[DEBUG] No existing releases, appended <item> at element %d\n", pos)
	return pos
}
