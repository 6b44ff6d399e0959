package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// --- Response types (дублируются из api/dto.go, клиент не импортирует internal/api) ---

// CaseResponse — кейс каталога из API.
type CaseResponse struct {
	Number      int      `json:"number"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Size        string   `json:"size"`
	Steps       []string `json:"steps"`
}

// RunResponse — прогон кейса из API.
type RunResponse struct {
	ID         string   `json:"id"`
	CaseNumber int      `json:"case_number"`
	CaseName   string   `json:"case_name"`
	Status     string   `json:"status"`
	Dispatched []string `json:"dispatched,omitempty"`
	Failures   []string `json:"failures,omitempty"`
	FileName   string   `json:"file_name,omitempty"`
	StartedAt  string   `json:"started_at,omitempty"`
	FinishedAt string   `json:"finished_at,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Error      string   `json:"error,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

// IsFinished возвращает true для PASSED и FAILED.
func (r RunResponse) IsFinished() bool {
	return r.Status == "PASSED" || r.Status == "FAILED"
}

// ListRunsOpts — фильтры для списка прогонов.
type ListRunsOpts struct {
	Case   int
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для API раннера.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Cases ---

// ListCases возвращает каталог кейсов.
func (c *Client) ListCases() ([]CaseResponse, error) {
	var cases []CaseResponse
	err := c.list("/api/v1/cases", nil, &cases)
	return cases, err
}

// StartCase ставит кейс каталога в очередь.
func (c *Client) StartCase(number int) (*RunResponse, error) {
	var run RunResponse
	err := c.doData(http.MethodPost, "/api/v1/cases/"+strconv.Itoa(number)+"/runs", nil, "", &run)
	return &run, err
}

// StartPlan ставит в очередь план (YAML или JSON как есть).
func (c *Client) StartPlan(plan []byte) (*RunResponse, error) {
	var run RunResponse
	err := c.doData(http.MethodPost, "/api/v1/runs", bytes.NewReader(plan), "application/yaml", &run)
	return &run, err
}

// --- Runs ---

// ListRuns возвращает список прогонов с фильтрацией.
func (c *Client) ListRuns(opts ListRunsOpts) ([]RunResponse, error) {
	params := url.Values{}
	if opts.Case > 0 {
		params.Set("case", strconv.Itoa(opts.Case))
	}
	if opts.Status != "" {
		params.Set("status", strings.ToUpper(opts.Status))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	var runs []RunResponse
	err := c.list("/api/v1/runs", params, &runs)
	return runs, err
}

// GetRun возвращает прогон по ID.
func (c *Client) GetRun(id string) (*RunResponse, error) {
	var run RunResponse
	err := c.doData(http.MethodGet, "/api/v1/runs/"+url.PathEscape(id), nil, "", &run)
	return &run, err
}

// WaitRun опрашивает прогон, пока он не завершится или не выйдет timeout.
func (c *Client) WaitRun(id string, interval, timeout time.Duration) (*RunResponse, error) {
	deadline := time.Now().Add(timeout)
	for {
		run, err := c.GetRun(id)
		if err != nil {
			return nil, err
		}
		if run.IsFinished() {
			return run, nil
		}
		if time.Now().After(deadline) {
			return run, fmt.Errorf("run %s still %s after %s", id, run.Status, timeout)
		}
		time.Sleep(interval)
	}
}

// --- HTTP helpers ---

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body io.Reader, contentType string, result any) error {
	resp, err := c.do(method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
