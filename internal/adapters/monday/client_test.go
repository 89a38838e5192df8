package monday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hylla/tidrapport/internal/domain"
)

func testConfig(url string) Config {
	return Config{
		APIURL:              url,
		Token:               "tok-123",
		BoardID:             "9001",
		DepartmentColumn:    "dept",
		DepartmentIndex:     17,
		PeopleColumn:        "people",
		FilmingDateColumns:  []string{"film1", "film2"},
		EditingRangeColumns: []string{"edit1"},
	}
}

func boardPayload(items ...map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"boards": []any{
				map[string]any{
					"items_page": map[string]any{"items": items},
				},
			},
		},
	}
}

func TestFetchActivitiesSuccess(t *testing.T) {
	var gotAuth string
	var gotBody graphQLRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		inItem := map[string]any{
			"id":   "42",
			"name": "Spring launch",
			"column_values": []any{
				map[string]any{"id": "dept", "text": "Video", "value": `{"index":17}`},
				map[string]any{"id": "people", "text": "Anna Berg, Rolf Ek", "value": ""},
				map[string]any{"id": "film1", "text": "2027-02-03", "value": `{"date":"2027-02-03"}`},
				map[string]any{"id": "edit1", "text": "", "value": `{"from":"2027-02-08","to":"2027-02-10"}`},
			},
		}
		outItem := map[string]any{
			"id":   "43",
			"name": "Other team",
			"column_values": []any{
				map[string]any{"id": "dept", "text": "Web", "value": `{"index":3}`},
				map[string]any{"id": "film1", "text": "2027-02-04", "value": `{"date":"2027-02-04"}`},
			},
		}
		if err := json.NewEncoder(w).Encode(boardPayload(inItem, outItem)); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	records, err := client.FetchActivities(context.Background())
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}

	if gotAuth != "tok-123" {
		t.Errorf("Authorization = %q, want tok-123", gotAuth)
	}
	if !strings.Contains(gotBody.Query, "items_page") {
		t.Errorf("query missing items_page: %q", gotBody.Query)
	}

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (other department filtered out)", len(records))
	}
	filming := records[0]
	if filming.Type != domain.ActivityFilming || filming.ProjectID != "42" {
		t.Errorf("first record = %+v, want filming for project 42", filming)
	}
	if len(filming.People) != 2 || filming.People[0] != "Anna Berg" {
		t.Errorf("people = %v, want [Anna Berg Rolf Ek]", filming.People)
	}
	editing := records[1]
	if editing.Type != domain.ActivityEditing {
		t.Errorf("second record type = %s, want editing", editing.Type)
	}
	if got := editing.End.Sub(editing.Start).Hours() / 24; got != 2 {
		t.Errorf("editing span = %v days, want 2", got)
	}
}

func TestFetchActivitiesGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"not authorized"}]}`))
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.FetchActivities(context.Background()); err == nil {
		t.Fatal("expected error from api errors payload")
	} else if !strings.Contains(err.Error(), "not authorized") {
		t.Errorf("error = %v, want api message included", err)
	}
}

func TestFetchActivitiesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.FetchActivities(context.Background()); err == nil {
		t.Fatal("expected error on http 502")
	}
}

func TestNewRequiresTokenAndBoard(t *testing.T) {
	if _, err := New(Config{BoardID: "1"}, nil); err == nil {
		t.Error("expected error without token")
	}
	if _, err := New(Config{Token: "t"}, nil); err == nil {
		t.Error("expected error without board id")
	}
}

func TestResolveToken(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "from-env")
		tok, err := ResolveToken("explicit", "")
		if err != nil || tok != "explicit" {
			t.Fatalf("got %q, %v; want explicit", tok, err)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "from-env")
		tok, err := ResolveToken("", "")
		if err != nil || tok != "from-env" {
			t.Fatalf("got %q, %v; want from-env", tok, err)
		}
	})

	t.Run("token file", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "")
		path := filepath.Join(t.TempDir(), "token")
		if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		tok, err := ResolveToken("", path)
		if err != nil || tok != "from-file" {
			t.Fatalf("got %q, %v; want from-file", tok, err)
		}
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "")
		if _, err := ResolveToken("", ""); err == nil {
			t.Fatal("expected ErrNoToken")
		}
	})
}
