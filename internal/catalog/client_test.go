package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/7891000100103", r.URL.Path)
		json.NewEncoder(w).Encode(Entry{Barcode: "7891000100103", Name: "Leite Integral 1L"})
	}))
	defer srv.Close()

	entry, err := New(srv.URL).Lookup(context.Background(), "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Leite Integral 1L", entry.Name)
}

func TestLookupMissAndFailuresAreSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/404":
			w.WriteHeader(http.StatusNotFound)
		case "/products/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte("not json"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	for _, barcode := range []string{"404", "boom", "garbled"} {
		entry, err := c.Lookup(context.Background(), barcode)
		assert.NoError(t, err, "barcode %s", barcode)
		assert.Nil(t, entry, "barcode %s", barcode)
	}
}

func TestLookupDisabledClient(t *testing.T) {
	entry, err := New("").Lookup(context.Background(), "7891000100103")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestContribute(t *testing.T) {
	var got Entry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	New(srv.URL).Contribute(context.Background(), "7891000100103", "Leite Integral 1L")
	assert.Equal(t, "Leite Integral 1L", got.Name)
	assert.Equal(t, "7891000100103", got.Barcode)
}

func TestContributeUnreachableIsSilent(t *testing.T) {
	// Port 1 is never listening; the call must swallow the failure.
	New("http://127.0.0.1:1").Contribute(context.Background(), "123", "x")
}
