package appcast

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"update-appcast/internal/logger"
)

const indentUnit = "  "

// Indent rewrites whitespace-only text and tails under root so every child
// element sits on its own line, two spaces deeper than its parent. Text and
// tails holding anything besides whitespace are left alone.
func Indent(root *etree.Element) {
	indent(root, 0)
}

func indent(e *etree.Element, level int) {
	pad := "\n" + strings.Repeat(indentUnit, level)

	children := e.ChildElements()
	if len(children) > 0 {
		if isBlank(e.Text()) {
			e.SetText(pad + indentUnit)
		}
		for _, child := range children {
			indent(child, level+1)
		}
		// The closing tag lines up with the opening one.
		if last := children[len(children)-1]; isBlank(last.Tail()) {
			last.SetTail(pad)
		}
		if level == 0 && isBlank(e.Tail()) {
			e.SetTail("\n")
		}
	}

	if level > 0 && isBlank(e.Tail()) {
		e.SetTail(pad)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Format indents the document and replaces its XML declaration with a
// UTF-8 one. Comments and other prolog tokens before the root are kept.
func (f *Feed) Format() {
	root := f.Doc.Root()
	Indent(root)

	doc := f.Doc
	for i := 0; i < len(doc.Child) && doc.Child[i] != etree.Token(root); {
		switch t := doc.Child[i].(type) {
		case *etree.ProcInst:
			if t.Target == "xml" {
				doc.RemoveChildAt(i)
				continue
			}
		case *etree.CharData:
			if t.IsWhitespace() {
				doc.RemoveChildAt(i)
				continue
			}
		}
		i++
	}
	for i := 0; doc.Child[i] != etree.Token(root); i += 2 {
		doc.InsertChildAt(i+1, etree.NewCharData("\n"))
	}

	doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="utf-8"`))
	doc.InsertChildAt(1, etree.NewCharData("\n"))
}

// Save formats the feed and overwrites path with it.
func (f *Feed) Save(path string) error {
	f.Format()
	if err := f.Doc.WriteToFile(path); err != nil {
		return err
	}
	logger.Debug("[DEBUG] Wrote appcast to %s\n", path)
	return nil
}

// WriteTo formats the feed and writes it to w.
func (f *Feed) WriteTo(w io.Writer) (int64, error) {
	f.Format()
	return f.Doc.WriteTo(w)
}
