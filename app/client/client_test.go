package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lysyi3m/hatena-atom/app/blog"
)

const entryXML = `<?xml version="1.0" encoding="utf-8"?>
<entry xmlns="http://www.w3.org/2005/Atom"
       xmlns:app="http://www.w3.org/2007/app">
  <id>tag:blog.hatena.ne.jp,2013:blog-test_user-20000000000000-3000000000000000</id>
  <link rel="edit" href="https://blog.hatena.ne.jp/test_user/test_blog/atom/entry/2500000000"/>
  <link rel="alternate" type="text/html" href="http://test_blog.hatenablog.com/entry/2013/09/02/112823"/>
  <author><name>test_user</name></author>
  <title>記事タイトル</title>
  <updated>2013-09-02T11:28:23+09:00</updated>
  <published>2013-09-02T11:28:24+09:00</published>
  <app:edited>2013-09-02T11:28:25+09:00</app:edited>
  <content type="text/x-hatena-syntax">** 記事本文</content>
  <category term="Scala" />
  <app:control>
    <app:draft>no</app:draft>
  </app:control>
</entry>`

const categoryDocumentXML = `<?xml version="1.0" encoding="utf-8"?>
<app:categories
    xmlns:app="http://www.w3.org/2007/app"
    xmlns:atom="http://www.w3.org/2005/Atom"
    fixed="no">
  <atom:category term="Perl" />
  <atom:category term="Scala" />
</app:categories>`

func newTestClient(serverURL string) *Client {
	return New(Config{
		HatenaID:  "test_user",
		BlogID:    "test_blog",
		APIKey:    "test_api_key",
		BaseURL:   serverURL,
		UserAgent: "hatena-atom/test",
	})
}

func TestClientURLs(t *testing.T) {
	c := New(Config{HatenaID: "HATENA_ID", BlogID: "BLOG_ID", APIKey: "API_KEY", BaseURL: "BASE_URL"})

	if got := c.collectionURL(""); got != "BASE_URL/HATENA_ID/BLOG_ID/atom/entry" {
		t.Errorf("Unexpected collection URL: %s", got)
	}
	if got := c.collectionURL("137 758"); got != "BASE_URL/HATENA_ID/BLOG_ID/atom/entry?page=137+758" {
		t.Errorf("Expected url-encoded page cursor, got: %s", got)
	}
	id, _ := blog.ParseEntryID("ENTRY_ID")
	if got := c.memberURL(id); got != "BASE_URL/HATENA_ID/BLOG_ID/atom/entry/ENTRY_ID" {
		t.Errorf("Unexpected member URL: %s", got)
	}
	if got := c.categoryDocumentURL(); got != "BASE_URL/HATENA_ID/BLOG_ID/atom/category" {
		t.Errorf("Unexpected category document URL: %s", got)
	}
}

func TestClientDefaultBaseURL(t *testing.T) {
	c := New(Config{HatenaID: "u", BlogID: "b", APIKey: "k"})
	if !strings.HasPrefix(c.collectionURL(""), DefaultBaseURL) {
		t.Errorf("Expected default base URL, got: %s", c.collectionURL(""))
	}
}

func TestClientGetEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got: %s", r.Method)
		}
		if r.URL.Path != "/test_user/test_blog/atom/entry/2500000000" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "test_user" || pass != "test_api_key" {
			t.Error("Expected Basic Auth with hatena id and api key")
		}
		io.WriteString(w, entryXML)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	id, _ := blog.ParseEntryID("2500000000")
	response, err := c.GetEntry(context.Background(), id)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.String() != entryXML {
		t.Error("Expected raw body to pass through unchanged")
	}

	entry, err := response.Entry()
	if err != nil {
		t.Fatalf("Expected entry to parse, got: %v", err)
	}
	if entry.Title != "記事タイトル" {
		t.Errorf("Unexpected title: %s", entry.Title)
	}
}

func TestClientCreateEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got: %s", r.Method)
		}
		if r.URL.Path != "/test_user/test_blog/atom/entry" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "<title>記事タイトル</title>") {
			t.Errorf("Expected serialized params as request body, got: %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, entryXML)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	params := blog.EntryParams{
		AuthorName: "test_user",
		Title:      "記事タイトル",
		Content:    "** 記事本文",
		Updated:    "2013-09-02T11:28:23",
		Categories: []string{"Scala"},
	}
	response, err := c.CreateEntry(context.Background(), params)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.String() != entryXML {
		t.Error("Expected raw body to pass through unchanged")
	}
}

func TestClientUpdateEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT, got: %s", r.Method)
		}
		if r.URL.Path != "/test_user/test_blog/atom/entry/2500000000" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		io.WriteString(w, entryXML)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	id, _ := blog.ParseEntryID("2500000000")
	if _, err := c.UpdateEntry(context.Background(), id, blog.EntryParams{Title: "t"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestClientDeleteEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got: %s", r.Method)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	id, _ := blog.ParseEntryID("2500000000")
	response, err := c.DeleteEntry(context.Background(), id)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if response.String() != "" {
		t.Errorf("Expected empty delete response, got: %q", response.String())
	}
}

func TestClientListEntriesInPage(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `<feed xmlns="http://www.w3.org/2005/Atom"><title>t</title></feed>`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.ListEntriesInPage(context.Background(), "1377584217"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotQuery != "page=1377584217" {
		t.Errorf("Expected page query parameter, got: %q", gotQuery)
	}

	if _, err := c.ListEntriesInPage(context.Background(), ""); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("Expected no query for the first page, got: %q", gotQuery)
	}
}

func TestClientListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test_user/test_blog/atom/category" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		io.WriteString(w, categoryDocumentXML)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	response, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	categories, err := response.Categories()
	if err != nil {
		t.Fatalf("Expected categories to parse, got: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Perl" || categories[1] != "Scala" {
		t.Errorf("Expected [Perl Scala], got: %v", categories)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusMethodNotAllowed, ErrMethodNotAllowed},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusTeapot, ErrUnknownStatus},
		{http.StatusBadGateway, ErrUnknownStatus},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := newTestClient(server.URL)
		id, _ := blog.ParseEntryID("2500000000")
		_, err := c.GetEntry(context.Background(), id)
		if !errors.Is(err, tt.want) {
			t.Errorf("Status %d: expected %v, got: %v", tt.status, tt.want, err)
		}
		server.Close()
	}
}

func TestClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := newTestClient(server.URL)
	id, _ := blog.ParseEntryID("2500000000")
	_, err := c.GetEntry(context.Background(), id)
	if err == nil {
		t.Fatal("Expected a transport error")
	}
	// Transport failures are wrapped, not mapped to a status kind.
	for _, kind := range []error{ErrBadRequest, ErrUnauthorized, ErrNotFound, ErrMethodNotAllowed, ErrInternalServerError, ErrUnknownStatus} {
		if errors.Is(err, kind) {
			t.Errorf("Expected transport error to stay distinct from %v", kind)
		}
	}
}
