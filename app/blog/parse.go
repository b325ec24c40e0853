package blog

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
)

// ErrParseEntry is the single error kind for every entry or feed parse
// failure: malformed document, missing author, missing content, missing edit
// or alternate link, missing or malformed timestamps. Callers can only
// observe that parsing failed, not which field caused it.
var ErrParseEntry = errors.New("parse entry error")

const (
	atomNamespace = "http://www.w3.org/2005/Atom"
	appNamespace  = "http://www.w3.org/2007/app"
)

// xmlDeclaration is the exact declaration the provider emits. Only this
// byte-for-byte prefix is stripped before wrapping a bare entry document.
const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`

// ParseEntryXML parses a single <entry> document, optionally preceded by the
// provider's XML declaration. The fragment is wrapped in a synthetic <feed>
// envelope so the feed parser can be reused, and the first entry is taken.
func ParseEntryXML(body string) (*Entry, error) {
	feed, err := parseFeed("<feed>" + strings.TrimPrefix(body, xmlDeclaration) + "</feed>")
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 {
		return nil, ErrParseEntry
	}
	return toEntry(feed.Entries[0])
}

// ParseFeedXML parses a <feed> document into its entries, in document order,
// plus the page cursor taken from the feed-level "next" link ("" when the
// feed has no next link). The first entry that fails its field rules aborts
// the whole parse.
func ParseFeedXML(body string) (string, []*Entry, error) {
	feed, err := parseFeed(body)
	if err != nil {
		return "", nil, err
	}

	entries := make([]*Entry, 0, len(feed.Entries))
	for _, raw := range feed.Entries {
		entry, err := toEntry(raw)
		if err != nil {
			return "", nil, err
		}
		entries = append(entries, entry)
	}

	return nextPage(feed.Links), entries, nil
}

func parseFeed(body string) (*atom.Feed, error) {
	parser := &atom.Parser{}
	feed, err := parser.Parse(strings.NewReader(body))
	if err != nil {
		return nil, ErrParseEntry
	}
	return feed, nil
}

// nextPage extracts the page query parameter from the "next" link. A next
// link without a page parameter (or with an unparsable href) yields no
// cursor; that is not a parse failure.
func nextPage(links []*atom.Link) string {
	link := findLink(links, "next")
	if link == nil {
		return ""
	}
	href, err := url.Parse(link.Href)
	if err != nil {
		return ""
	}
	return href.Query().Get("page")
}

// toEntry applies the per-field extraction rules to one raw atom entry.
// Every rule that fails collapses into ErrParseEntry; no partial Entry is
// ever produced.
func toEntry(raw *atom.Entry) (*Entry, error) {
	if len(raw.Authors) == 0 || raw.Authors[0] == nil {
		return nil, ErrParseEntry
	}
	if raw.Content == nil {
		return nil, ErrParseEntry
	}

	editLink := findLink(raw.Links, "edit")
	if editLink == nil {
		return nil, ErrParseEntry
	}
	alternateLink := findLink(raw.Links, "alternate")
	if alternateLink == nil {
		return nil, ErrParseEntry
	}

	// The id is not the document's <id>: it is the trailing path segment of
	// the edit link, e.g. .../atom/entry/2500000000.
	segments := strings.Split(editLink.Href, "/")
	id, err := ParseEntryID(segments[len(segments)-1])
	if err != nil {
		return nil, ErrParseEntry
	}

	editedValue, ok := extensionValue(raw.Extensions, "edited")
	if !ok {
		return nil, ErrParseEntry
	}
	edited, err := time.Parse(time.RFC3339, editedValue)
	if err != nil {
		return nil, ErrParseEntry
	}

	if raw.PublishedParsed == nil || raw.UpdatedParsed == nil {
		return nil, ErrParseEntry
	}

	categories := make([]string, 0, len(raw.Categories))
	for _, category := range raw.Categories {
		if category != nil {
			categories = append(categories, category.Term)
		}
	}

	draft := false
	if v, ok := extensionValue(raw.Extensions, "control", "draft"); ok {
		draft = v == "yes"
	}

	return &Entry{
		AuthorName: raw.Authors[0].Name,
		Categories: categories,
		Content:    raw.Content.Value,
		Draft:      draft,
		EditURL:    editLink.Href,
		Edited:     edited,
		ID:         id,
		Published:  *raw.PublishedParsed,
		Title:      raw.Title,
		Updated:    *raw.UpdatedParsed,
		URL:        alternateLink.Href,
	}, nil
}

func findLink(links []*atom.Link, rel string) *atom.Link {
	for _, link := range links {
		if link != nil && link.Rel == rel {
			return link
		}
	}
	return nil
}

// extensionValue resolves an app-namespace extension path (e.g. "control",
// "draft") to its text value. gofeed keys its extension map by the document
// prefix for non-canonical namespaces, so both the conventional "app" prefix
// and the namespace URI are accepted as the top-level key.
func extensionValue(exts ext.Extensions, path ...string) (string, bool) {
	for _, key := range []string{"app", appNamespace} {
		if v, ok := lookupExtension(exts[key], path); ok {
			return v, true
		}
	}
	return "", false
}

func lookupExtension(elements map[string][]ext.Extension, path []string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	matches, ok := elements[path[0]]
	if !ok || len(matches) == 0 {
		return "", false
	}
	if len(path) == 1 {
		return matches[0].Value, true
	}
	return lookupExtension(matches[0].Children, path[1:])
}
