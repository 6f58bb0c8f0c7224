package pager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/wpclient"
)

// collectionServer serves n items in pages of perPage. When withHeader is
// set it announces the page count via X-WP-TotalPages; otherwise requests
// past the last page get a WordPress-style 400.
func collectionServer(t *testing.T, n int, withHeader bool, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if page < 1 || perPage < 1 {
			t.Errorf("bad pagination params: page=%q per_page=%q",
				r.URL.Query().Get("page"), r.URL.Query().Get("per_page"))
		}

		totalPages := (n + perPage - 1) / perPage
		if withHeader {
			w.Header().Set("X-WP-TotalPages", strconv.Itoa(totalPages))
		}
		if page > totalPages {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":"rest_post_invalid_page_number"}`))
			return
		}

		start := (page - 1) * perPage
		end := start + perPage
		if end > n {
			end = n
		}
		w.Write([]byte(pageBody(start, end)))
	}))
}

func pageBody(start, end int) string {
	body := "["
	for i := start; i < end; i++ {
		if i > start {
			body += ","
		}
		body += fmt.Sprintf(`{"id":%d}`, i+1)
	}
	return body + "]"
}

func fetchAll(t *testing.T, url string, perPage int) (Result, []int64, error) {
	t.Helper()
	pg := New(wpclient.New(nil, nil), perPage)
	ep := models.Endpoint{Route: "/wp/v2/posts", Type: "posts", Page: 1}
	var ids []int64
	res, err := pg.Fetch(context.Background(), url, &ep, func(raw json.RawMessage) error {
		var item struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			return err
		}
		ids = append(ids, item.ID)
		return nil
	})
	return res, ids, err
}

func TestFetchWithoutTotalPagesHeader(t *testing.T) {
	requests := 0
	srv := collectionServer(t, 5, false, &requests)
	defer srv.Close()

	res, ids, err := fetchAll(t, srv.URL, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.State != StateExhausted {
		t.Errorf("State = %v, want exhausted", res.State)
	}
	if res.Pages != 3 || res.Items != 5 {
		t.Errorf("Pages = %d, Items = %d, want 3 and 5", res.Pages, res.Items)
	}
	// 3 data pages plus one terminal 400.
	if requests != 4 {
		t.Errorf("requests = %d, want 4", requests)
	}
	for i, id := range ids {
		if id != int64(i+1) {
			t.Fatalf("ids out of order: %v", ids)
		}
	}
}

func TestFetchWithTotalPagesHeader(t *testing.T) {
	requests := 0
	srv := collectionServer(t, 5, true, &requests)
	defer srv.Close()

	res, ids, err := fetchAll(t, srv.URL, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.State != StateExhausted || res.Pages != 3 || res.Items != 5 {
		t.Errorf("Result = %+v, want exhausted, 3 pages, 5 items", res)
	}
	// The header lets the walk stop without probing past the end.
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
	if len(ids) != 5 {
		t.Errorf("len(ids) = %d, want 5", len(ids))
	}
}

func TestFetchExactPageBoundary(t *testing.T) {
	requests := 0
	srv := collectionServer(t, 4, false, &requests)
	defer srv.Close()

	res, _, err := fetchAll(t, srv.URL, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Pages != 2 || res.Items != 4 {
		t.Errorf("Pages = %d, Items = %d, want 2 and 4", res.Pages, res.Items)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestFetchEmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res, ids, err := fetchAll(t, srv.URL, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.State != StateExhausted || res.Pages != 0 || res.Items != 0 {
		t.Errorf("Result = %+v, want exhausted with nothing fetched", res)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
}

func TestFetchTerminalStatuses(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		wantState  State
		wantErr    bool
		authDenied bool
	}{
		{name: "400 ends the walk cleanly", code: 400, wantState: StateExhausted},
		{name: "404 ends the walk cleanly", code: 404, wantState: StateExhausted},
		{name: "401 abandons the endpoint", code: 401, wantState: StateErrored, wantErr: true, authDenied: true},
		{name: "403 abandons the endpoint", code: 403, wantState: StateErrored, wantErr: true, authDenied: true},
		{name: "500 abandons the endpoint", code: 500, wantState: StateErrored, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			res, _, err := fetchAll(t, srv.URL, 2)
			if res.State != tt.wantState {
				t.Errorf("State = %v, want %v", res.State, tt.wantState)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var epErr *EndpointError
			if !errors.As(err, &epErr) {
				t.Fatalf("error type = %T, want *EndpointError", err)
			}
			if epErr.Code != tt.code {
				t.Errorf("Code = %d, want %d", epErr.Code, tt.code)
			}
			if epErr.AuthDenied() != tt.authDenied {
				t.Errorf("AuthDenied() = %v, want %v", epErr.AuthDenied(), tt.authDenied)
			}
		})
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res, _, err := fetchAll(t, srv.URL, 2)
	if res.State != StateErrored {
		t.Errorf("State = %v, want errored", res.State)
	}
	var epErr *EndpointError
	if !errors.As(err, &epErr) {
		t.Fatalf("error type = %T, want *EndpointError", err)
	}
	if epErr.Code != 0 {
		t.Errorf("Code = %d, want 0 for network failures", epErr.Code)
	}
}

func TestFetchUndecodablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	res, _, err := fetchAll(t, srv.URL, 2)
	if res.State != StateErrored || err == nil {
		t.Fatalf("Result = %+v, err = %v, want errored walk", res, err)
	}
}

func TestFetchCallbackErrorAbandonsEndpoint(t *testing.T) {
	requests := 0
	srv := collectionServer(t, 5, false, &requests)
	defer srv.Close()

	pg := New(wpclient.New(nil, nil), 2)
	ep := models.Endpoint{Route: "/wp/v2/posts", Type: "posts", Page: 1}
	boom := errors.New("boom")
	delivered := 0
	res, err := pg.Fetch(context.Background(), srv.URL, &ep, func(json.RawMessage) error {
		delivered++
		if delivered == 3 {
			return boom
		}
		return nil
	})
	if res.State != StateErrored {
		t.Errorf("State = %v, want errored", res.State)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped callback error", err)
	}
	if res.Items != 2 {
		t.Errorf("Items = %d, want 2 counted before the failure", res.Items)
	}
}
