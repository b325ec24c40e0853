package blog

import (
	"bytes"
)

// EntryParams carries the caller-supplied fields of a create or update
// request. Updated is passed through as-is in its YYYY-MM-DDTHH:MM:SS form;
// the provider validates it, not this package.
type EntryParams struct {
	AuthorName string
	Title      string
	Content    string
	Updated    string
	Categories []string
	Draft      bool
}

// IntoXML serializes the params into the Atom entry document the provider's
// write API accepts. Element order is fixed: title, author, content, updated,
// categories in input order, app:control/app:draft.
func (p EntryParams) IntoXML() string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	buf.WriteString(`<entry xmlns="http://www.w3.org/2005/Atom"` + "\n")
	buf.WriteString(`       xmlns:app="http://www.w3.org/2007/app">` + "\n")

	buf.WriteString("  <title>")
	escapeTo(&buf, p.Title)
	buf.WriteString("</title>\n")

	buf.WriteString("  <author><name>")
	escapeTo(&buf, p.AuthorName)
	buf.WriteString("</name></author>\n")

	buf.WriteString(`  <content type="text/plain">`)
	escapeTo(&buf, p.Content)
	buf.WriteString("</content>\n")

	buf.WriteString("  <updated>")
	escapeTo(&buf, p.Updated)
	buf.WriteString("</updated>\n")

	for _, category := range p.Categories {
		buf.WriteString(`  <category term="`)
		escapeTo(&buf, category)
		buf.WriteString(`" />` + "\n")
	}

	buf.WriteString("  <app:control>\n")
	buf.WriteString("    <app:draft>")
	if p.Draft {
		buf.WriteString("yes")
	} else {
		buf.WriteString("no")
	}
	buf.WriteString("</app:draft>\n")
	buf.WriteString("  </app:control>\n")

	buf.WriteString("</entry>")

	return buf.String()
}

// escapeTo writes s escaping exactly the five XML-reserved characters and
// nothing else. xml.EscapeText is not used: it also emits character
// references for TAB/CR/NL and never produces &apos;, while the provider
// contract is these five entities exactly.
func escapeTo(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString("&quot;")
		case '&':
			buf.WriteString("&amp;")
		case '\'':
			buf.WriteString("&apos;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
}
