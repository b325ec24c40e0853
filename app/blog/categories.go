package blog

import (
	"errors"
	"strings"

	xpp "github.com/mmcdole/goxpp"
)

// ErrParseCategory is the single error kind for every category-document
// parse failure: unsupported out-of-line form, duplicate root, missing root,
// premature end of document, tokenization error.
var ErrParseCategory = errors.New("parse category error")

// categoryScanState tracks progress through the single app:categories root.
type categoryScanState int

const (
	beforeRoot categoryScanState = iota
	inRoot
	rootClosed
)

// ParseCategoryDocumentXML scans an AtomPub category document and returns
// every category term in document order, duplicates preserved. The provider
// mixes an app-namespaced root with Atom-namespaced children, so elements are
// matched by resolved namespace plus local name, never by raw tag text.
//
// The out-of-line form, where the root carries an href pointing at a
// separately hosted category document, is valid AtomPub but unsupported here
// and rejected as a parse failure.
func ParseCategoryDocumentXML(body string) ([]string, error) {
	p := xpp.NewXMLPullParser(strings.NewReader(body), false, nil)

	state := beforeRoot
	depth := 0
	categories := []string{}
	for {
		event, err := p.Next()
		if err != nil {
			return nil, ErrParseCategory
		}

		switch event {
		case xpp.StartTag:
			switch {
			case state == inRoot:
				if p.Space == appNamespace && p.Name == "categories" {
					return nil, ErrParseCategory
				}
				if p.Space == atomNamespace && p.Name == "category" {
					for _, attr := range p.Attrs {
						if attr.Name.Local == "term" {
							categories = append(categories, attr.Value)
						}
					}
				}
				depth++
			case p.Space == appNamespace && p.Name == "categories":
				if state == rootClosed {
					return nil, ErrParseCategory
				}
				if p.Attribute("href") != "" {
					return nil, ErrParseCategory
				}
				state = inRoot
			}

		case xpp.EndTag:
			// The tokenizer does not resolve namespaces on close tags, so the
			// root's close is recognized by nesting depth, not by p.Space.
			if state == inRoot {
				if depth == 0 {
					state = rootClosed
				} else {
					depth--
				}
			}

		case xpp.EndDocument:
			if state != rootClosed {
				return nil, ErrParseCategory
			}
			return categories, nil
		}
	}
}
