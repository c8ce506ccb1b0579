package spy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/reqspy/internal/core/collection"
	"github.com/sadopc/reqspy/internal/mock"
	"github.com/sadopc/reqspy/internal/query"
	"github.com/sadopc/reqspy/internal/spy"
	"github.com/sadopc/reqspy/internal/spy/spytest"
)

func itemsCollection() *collection.Collection {
	return &collection.Collection{
		Name: "Items",
		Items: []collection.Item{
			{Route: &collection.Route{
				ID:     "items",
				Name:   "Active Items",
				Method: "GET",
				URL:    "https://api.example.com/items?active=true&limit=10",
				Response: &collection.Response{
					Body: &collection.Body{Type: "json", Content: `[]`},
				},
			}},
			{Route: &collection.Route{ID: "create", Name: "Create Item", Method: "POST", URL: "/items"}},
		},
	}
}

func TestObserveMatchedRequestOverHTTP(t *testing.T) {
	srv := mock.New(itemsCollection())
	calls := spy.Observe(srv.Events())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/items?active=true&limit=10")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	spytest.AssertCallCount(t, calls, 1)
	spytest.AssertCalledWith(t, calls, spy.Expect(spy.Partial{
		SearchParams: query.Mapping{"active": query.Bool(true), "limit": query.Num(10)},
		Pathname:     "/items",
		Method:       spy.MethodGet,
	}))
}

func TestObserveUnmatchedRequest(t *testing.T) {
	srv := mock.New(itemsCollection())
	calls := spy.Observe(srv.Events())

	resp, err := srv.Client().Get("https://api.example.com/nothing-here?active=true")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	spytest.AssertNotCalled(t, calls)
}

func TestObserveInterceptedClient(t *testing.T) {
	srv := mock.New(itemsCollection())
	calls := spy.Observe(srv.Events())
	client := srv.Client()

	resp, err := client.Post("https://api.example.com/items?draft=&tag=new", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get("https://api.example.com/items?limit=10&active=true")
	require.NoError(t, err)
	resp.Body.Close()

	spytest.AssertCallCount(t, calls, 2)
	spytest.AssertNthCalledWith(t, calls, 1, spy.Partial{
		SearchParams: query.Mapping{"draft": query.Num(0), "tag": query.Str("new")},
		Method:       spy.MethodPost,
	})
	spytest.AssertLastCalledWith(t, calls, spy.Partial{Pathname: "/items", Method: spy.MethodGet})
}

func TestObserveRuntimeOverride(t *testing.T) {
	srv := mock.New(itemsCollection())
	calls := spy.Observe(srv.Events())

	srv.Use(&collection.Route{Name: "Legacy", Method: "DELETE", URL: "/legacy"})
	req, err := http.NewRequest(http.MethodDelete, "https://api.example.com/legacy?force=false", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	spytest.AssertCalledWith(t, calls, spy.Partial{
		Pathname:     "/legacy",
		Method:       spy.MethodDelete,
		SearchParams: query.Mapping{"force": query.Bool(false)},
	})
}
