// Package appcast loads, edits and rewrites Sparkle appcast feeds.
//
// A feed is an RSS document whose root holds exactly one <channel>. Release
// records are <item> elements inside the channel, newest first, each carrying
// Sparkle-namespaced version fields and an <enclosure> describing the download.
package appcast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"update-appcast/internal/logger"
)

const (
	// SparkleNS is the namespace URI of all Sparkle-specific elements and attributes.
	SparkleNS = "http://www.andymatuschak.org/xml-namespaces/sparkle"

	// SparklePrefix is the conventional prefix bound to SparkleNS.
	SparklePrefix = "sparkle"

	channelTag = "channel"
	itemTag    = "item"
)

var (
	// ErrParse indicates the feed file could not be read or is not well-formed XML.
	// Load returns it wrapped in a *ParseError.
	ErrParse = errors.New("failed to parse appcast")

	// ErrMissingChannel indicates the feed root has no <channel> child.
	ErrMissingChannel = errors.New("appcast.xml missing <channel>")
)

// ParseError reports why a feed could not be loaded.
// It matches ErrParse under errors.Is.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrParse, e.Err)
	}
	return fmt.Sprintf("%v %s: %v", ErrParse, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Feed is a parsed appcast document together with its channel element.
type Feed struct {
	Doc     *etree.Document
	Channel *etree.Element

	// prefix is the namespace prefix bound to SparkleNS on the root element.
	prefix string
}

// Load parses the feed at path and locates its channel.
// Errors wrap ErrParse or ErrMissingChannel.
func Load(path string) (*Feed, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	logger.Debug("[DEBUG] Parsed appcast %s\n", path)
	return newFeed(doc, path)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Feed, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Err: err}
	}
	return newFeed(doc, "")
}

func newFeed(doc *etree.Document, path string) (*Feed, error) {
	if err := checkWellFormed(doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	root := doc.Root()

	var channel *etree.Element
	for _, e := range root.ChildElements() {
		if e.Space == "" && e.Tag == channelTag {
			channel = e
			break
		}
	}
	if channel == nil {
		return nil, ErrMissingChannel
	}

	f := &Feed{Doc: doc, Channel: channel}
	f.prefix = registerNamespace(root)
	return f, nil
}

// checkWellFormed rejects documents the etree reader tolerates but XML does
// not: anything other than one root element plus prolog/epilog markup, and
// element or attribute prefixes with no namespace declaration in scope.
func checkWellFormed(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return fmt.Errorf("junk after document element: <%s>", t.FullTag())
			}
		case *etree.CharData:
			if !t.IsWhitespace() {
				return fmt.Errorf("text outside the document element: %q", strings.TrimSpace(t.Data))
			}
		}
	}
	if roots == 0 {
		return errors.New("no root element")
	}
	return checkPrefixes(doc.Root())
}

func checkPrefixes(e *etree.Element) error {
	if !reservedPrefix(e.Space) && e.NamespaceURI() == "" {
		return fmt.Errorf("unbound prefix on element <%s>", e.FullTag())
	}
	for i := range e.Attr {
		a := &e.Attr[i]
		if !reservedPrefix(a.Space) && a.NamespaceURI() == "" {
			return fmt.Errorf("unbound prefix on attribute %s of <%s>", a.FullKey(), e.FullTag())
		}
	}
	for _, child := range e.ChildElements() {
		if err := checkPrefixes(child); err != nil {
			return err
		}
	}
	return nil
}

func reservedPrefix(space string) bool {
	return space == "" || space == "xmlns" || space == "xml"
}

// Prefix returns the namespace prefix used for Sparkle fields in this feed.
func (f *Feed) Prefix() string {
	return f.prefix
}

// Items returns the channel's release records in document order.
func (f *Feed) Items() []*etree.Element {
	var items []*etree.Element
	for _, e := range f.Channel.ChildElements() {
		if isItem(e) {
			items = append(items, e)
		}
	}
	return items
}

// isItem matches unprefixed <item> elements only.
func isItem(e *etree.Element) bool {
	return e.Space == "" && e.Tag == itemTag
}

// registerNamespace makes sure the root binds a prefix to SparkleNS and returns it.
// An existing binding is reused so feeds keep whatever prefix they already use.
func registerNamespace(root *etree.Element) string {
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == SparkleNS {
			return a.Key
		}
	}
	if existing := root.SelectAttr("xmlns:" + SparklePrefix); existing != nil {
		// The conventional prefix is taken by another namespace.
		logger.Warn("[WARN] xmlns:%s is bound to %s, rebinding to %s\n", SparklePrefix, existing.Value, SparkleNS)
		existing.Value = SparkleNS
		return SparklePrefix
	}
	root.CreateAttr("xmlns:"+SparklePrefix, SparkleNS)
	logger.Debug("[DEBUG] Declared xmlns:%s on <%s>\n", SparklePrefix, root.Tag)
	return SparklePrefix
}
