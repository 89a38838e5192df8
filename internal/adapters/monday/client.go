// Package monday fetches activity records from a Monday.com board over the
// GraphQL v2 API and normalizes its raw column values into domain records.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/hylla/tidrapport/internal/domain"
)

// DefaultAPIURL defines the production GraphQL endpoint.
const DefaultAPIURL = "https://api.monday.com/v2"

const itemsQuery = `
query ($boardId: [ID!]) {
  boards(ids: $boardId) {
    items_page(limit: 500) {
      items {
        id
        name
        column_values {
          id
          text
          value
        }
      }
    }
  }
}`

// Config wires the client to one board and maps its column ids.
type Config struct {
	APIURL  string
	Token   string
	BoardID string

	// DepartmentColumn is a single-select column; only items whose value
	// index equals DepartmentIndex belong to the reported department.
	DepartmentColumn string
	DepartmentIndex  int

	PeopleColumn        string
	FilmingDateColumns  []string
	EditingRangeColumns []string
}

// Client talks to one Monday.com board.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *charmLog.Logger
}

// New constructs a board client. The token and board id are required.
func New(cfg Config, logger *charmLog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("monday api token is required")
	}
	if strings.TrimSpace(cfg.BoardID) == "" {
		return nil, errors.New("monday board id is required")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type columnValue struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

type boardItem struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []columnValue `json:"column_values"`
}

type itemsResponse struct {
	Data struct {
		Boards []struct {
			ItemsPage struct {
				Items []boardItem `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchActivities pulls the board's items, filters them to the configured
// department and normalizes each into activity records. Items with malformed
// date columns lose only those columns; the rest of the item still counts.
func (c *Client) FetchActivities(ctx context.Context) ([]domain.ActivityRecord, error) {
	resp, err := c.query(ctx, itemsQuery, map[string]any{
		"boardId": []string{c.cfg.BoardID},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch board %s: %w", c.cfg.BoardID, err)
	}
	if len(resp.Data.Boards) == 0 {
		return nil, nil
	}

	var records []domain.ActivityRecord
	for _, item := range resp.Data.Boards[0].ItemsPage.Items {
		if !c.inDepartment(item) {
			continue
		}
		recs, warnings := normalizeItem(item, c.cfg)
		for _, w := range warnings {
			c.logger.Warn("skipping malformed column", "item", item.ID, "reason", w)
		}
		records = append(records, recs...)
	}
	return records, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any) (*itemsResponse, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d from api: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		msgs := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("api errors: %s", strings.Join(msgs, "; "))
	}
	return &decoded, nil
}

// inDepartment checks the single-select department column against the
// configured index. An unset department column excludes the item.
func (c *Client) inDepartment(item boardItem) bool {
	if strings.TrimSpace(c.cfg.DepartmentColumn) == "" {
		return true
	}
	col, ok := findColumn(item.ColumnValues, c.cfg.DepartmentColumn)
	if !ok || col.Value == "" {
		return false
	}
	var sel struct {
		Index *int `json:"index"`
	}
	if err := json.Unmarshal([]byte(col.Value), &sel); err != nil || sel.Index == nil {
		return false
	}
	return *sel.Index == c.cfg.DepartmentIndex
}

func findColumn(values []columnValue, id string) (columnValue, bool) {
	for _, v := range values {
		if v.ID == id {
			return v, true
		}
	}
	return columnValue{}, false
}
