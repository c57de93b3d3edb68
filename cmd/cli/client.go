package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/streamfetch-go/internal/domain"
	"github.com/yourusername/streamfetch-go/pkg/logger"
)

// apiClient talks to the StreamFetch server
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// lookups wait on the remote metadata service
		http: &http.Client{Timeout: 90 * time.Second},
	}
}

type lookupResult struct {
	Record domain.MetadataRecord `json:"record"`
	Saved  bool                  `json:"saved"`
}

type libraryResult struct {
	Library []domain.MetadataRecord `json:"library"`
}

type formatsResult struct {
	Collection bool                      `json:"collection"`
	Formats    []domain.FormatDescriptor `json:"formats"`
}

type logsResult struct {
	Category string            `json:"category"`
	Date     string            `json:"date"`
	Count    int               `json:"count"`
	Entries  []logger.LogEntry `json:"entries"`
}

// do sends a JSON request and decodes the response into out. Non-2xx
// responses become errors carrying the server's message.
func (c *apiClient) do(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *apiClient) Lookup(rawURL string) (*lookupResult, error) {
	var result lookupResult
	if err := c.do(http.MethodPost, "/api/v1/lookup", map[string]string{"url": rawURL}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *apiClient) Formats(collection bool) ([]domain.FormatDescriptor, error) {
	var result formatsResult
	path := fmt.Sprintf("/api/v1/formats?collection=%t", collection)
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Formats, nil
}

func (c *apiClient) Library() ([]domain.MetadataRecord, error) {
	var result libraryResult
	if err := c.do(http.MethodGet, "/api/v1/library", nil, &result); err != nil {
		return nil, err
	}
	return result.Library, nil
}

func (c *apiClient) Save(record domain.MetadataRecord) ([]domain.MetadataRecord, error) {
	var result libraryResult
	if err := c.do(http.MethodPost, "/api/v1/library", record, &result); err != nil {
		return nil, err
	}
	return result.Library, nil
}

func (c *apiClient) Remove(id string) ([]domain.MetadataRecord, error) {
	var result libraryResult
	if err := c.do(http.MethodDelete, "/api/v1/library/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return result.Library, nil
}

func (c *apiClient) Session() (*domain.UIState, error) {
	var state domain.UIState
	if err := c.do(http.MethodGet, "/api/v1/session", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *apiClient) Open(id string) (*domain.UIState, error) {
	var state domain.UIState
	if err := c.do(http.MethodPost, "/api/v1/session/open/"+url.PathEscape(id), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *apiClient) StartDownload(record domain.MetadataRecord, formatID string) (*domain.DownloadTask, error) {
	payload := map[string]interface{}{
		"title":         record.Title,
		"is_collection": record.IsCollection,
		"format_id":     formatID,
	}
	var task domain.DownloadTask
	if err := c.do(http.MethodPost, "/api/v1/downloads", payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *apiClient) Download(id string) (*domain.DownloadTask, error) {
	var task domain.DownloadTask
	if err := c.do(http.MethodGet, "/api/v1/downloads/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *apiClient) Downloads(status string) ([]domain.DownloadTask, error) {
	path := "/api/v1/downloads"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var tasks []domain.DownloadTask
	if err := c.do(http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *apiClient) Logs(category, date, query string, limit int) (*logsResult, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}

	path := "/api/v1/logs/" + url.PathEscape(category)
	if query != "" {
		path += "/search"
		params.Set("q", query)
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result logsResult
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FollowProgress streams progress events for a download until the server
// closes the socket. onEvent sees every event, the last one terminal.
func (c *apiClient) FollowProgress(id string, onEvent func(domain.ProgressEvent)) error {
	wsURL, err := progressURL(c.baseURL, id)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to progress stream: %w", err)
	}
	defer conn.Close()

	for {
		var event domain.ProgressEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		onEvent(event)
	}
}

// progressURL maps the http(s) server address onto the ws(s) progress endpoint
func progressURL(baseURL, id string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/downloads/" + url.PathEscape(id) + "/progress"
	return u.String(), nil
}
