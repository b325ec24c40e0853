package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/hatena-atom/app/blog"
)

const DefaultBaseURL = "https://blog.hatena.ne.jp"

// Error kinds for the status classes the provider is known to return.
// Anything else non-2xx collapses into ErrUnknownStatus; transport failures
// are wrapped and carry the underlying error.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrMethodNotAllowed    = errors.New("method not allowed")
	ErrInternalServerError = errors.New("internal server error")
	ErrUnknownStatus       = errors.New("unknown status code")
)

// Config carries the credentials and knobs for one blog. HatenaID doubles as
// the Basic Auth username; APIKey is the AtomPub key from the blog settings
// page, not the account password.
type Config struct {
	HatenaID   string
	BlogID     string
	APIKey     string
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks to the provider's AtomPub endpoints for a single blog. It is
// safe for concurrent use; it holds no mutable state beyond the embedded
// http.Client.
type Client struct {
	hatenaID   string
	blogID     string
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func New(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		hatenaID:   config.HatenaID,
		blogID:     config.BlogID,
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  config.UserAgent,
		httpClient: httpClient,
	}
}

// CreateEntry posts a new entry to the collection.
func (c *Client) CreateEntry(ctx context.Context, params blog.EntryParams) (blog.CreateEntryResponse, error) {
	body, err := c.send(ctx, http.MethodPost, c.collectionURL(""), params.IntoXML())
	if err != nil {
		return blog.CreateEntryResponse{}, err
	}
	return blog.NewMemberResponse(body), nil
}

// DeleteEntry removes the entry. The provider returns no content.
func (c *Client) DeleteEntry(ctx context.Context, id blog.EntryID) (blog.DeleteEntryResponse, error) {
	body, err := c.send(ctx, http.MethodDelete, c.memberURL(id), "")
	if err != nil {
		return blog.DeleteEntryResponse{}, err
	}
	return blog.NewEmptyResponse(body), nil
}

// GetEntry fetches a single entry document.
func (c *Client) GetEntry(ctx context.Context, id blog.EntryID) (blog.GetEntryResponse, error) {
	body, err := c.send(ctx, http.MethodGet, c.memberURL(id), "")
	if err != nil {
		return blog.GetEntryResponse{}, err
	}
	return blog.NewMemberResponse(body), nil
}

// ListCategories fetches the blog's category document.
func (c *Client) ListCategories(ctx context.Context) (blog.ListCategoriesResponse, error) {
	body, err := c.send(ctx, http.MethodGet, c.categoryDocumentURL(), "")
	if err != nil {
		return blog.ListCategoriesResponse{}, err
	}
	return blog.NewCategoryDocumentResponse(body), nil
}

// ListEntriesInPage fetches one page of the entry collection. page is the
// cursor from a previous page's response, or "" for the first page.
func (c *Client) ListEntriesInPage(ctx context.Context, page string) (blog.ListEntriesResponse, error) {
	body, err := c.send(ctx, http.MethodGet, c.collectionURL(page), "")
	if err != nil {
		return blog.ListEntriesResponse{}, err
	}
	return blog.NewCollectionResponse(body), nil
}

// UpdateEntry replaces the entry's content with the given params.
func (c *Client) UpdateEntry(ctx context.Context, id blog.EntryID, params blog.EntryParams) (blog.UpdateEntryResponse, error) {
	body, err := c.send(ctx, http.MethodPut, c.memberURL(id), params.IntoXML())
	if err != nil {
		return blog.UpdateEntryResponse{}, err
	}
	return blog.NewMemberResponse(body), nil
}

func (c *Client) categoryDocumentURL() string {
	return fmt.Sprintf("%s/%s/%s/atom/category", c.baseURL, c.hatenaID, c.blogID)
}

func (c *Client) collectionURL(page string) string {
	u := fmt.Sprintf("%s/%s/%s/atom/entry", c.baseURL, c.hatenaID, c.blogID)
	if page != "" {
		u += "?page=" + url.QueryEscape(page)
	}
	return u
}

func (c *Client) memberURL(id blog.EntryID) string {
	return fmt.Sprintf("%s/%s/%s/atom/entry/%s", c.baseURL, c.hatenaID, c.blogID, id)
}

func (c *Client) send(ctx context.Context, method, rawURL, body string) (string, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.hatenaID, c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read response body: %w", err)
		}
		return string(data), nil
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return "", ErrBadRequest
	case http.StatusUnauthorized:
		return "", ErrUnauthorized
	case http.StatusNotFound:
		return "", ErrNotFound
	case http.StatusMethodNotAllowed:
		return "", ErrMethodNotAllowed
	case http.StatusInternalServerError:
		return "", ErrInternalServerError
	default:
		return "", ErrUnknownStatus
	}
}
