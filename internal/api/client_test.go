package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterm/internal/apperror"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken(token), 5*time.Second, zerolog.Nop())
}

func TestBearerHeader(t *testing.T) {
	var gotAuth, gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}, "tok-123")

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	client := New(srv.URL, nil, time.Second, zerolog.Nop())

	_, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListEnvelopeUnwrap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Write([]byte(`{"data":[{"name":"Coca 2L","salePrice":"9.50"},{"name":"Pão","salePrice":"0.75"}]}`))
	}, "tok")

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Coca 2L", products[0].Name)
	assert.Equal(t, "9.5", products[0].SalePrice.String())
}

func TestAuthEnvelopeUnwrap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		w.Write([]byte(`{"data":{"token":"tok-xyz","user":{"name":"Maria","role":"owner"}}}`))
	}, "")

	sess, err := client.Login(context.Background(), Credentials{Email: "maria@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", sess.Token)
	assert.Equal(t, "Maria", sess.User.Name)
}

func TestMeIsBare(t *testing.T) {
	// /me returns the user without the data envelope
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		w.Write([]byte(`{"name":"João","email":"joao@example.com"}`))
	}, "tok")

	u, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", u.Email)
}

func TestRequestErrorCarriesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"insufficient stock for Coca 2L"}`))
	}, "tok")

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)

	var re *apperror.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	assert.Equal(t, "insufficient stock for Coca 2L", re.Message)
	assert.Equal(t, "insufficient stock for Coca 2L", apperror.Message(err))
}

func TestRequestErrorNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}, "tok")

	_, err := client.ListProducts(context.Background())
	var re *apperror.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Equal(t, "upstream exploded", re.Message)
}

func TestBarcodeMissIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"product not found"}`))
	}, "tok")

	_, err := client.ProductByBarcode(context.Background(), "7891000100103")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCurrentRegisterMissIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no open cash register"}`))
	}, "tok")

	_, err := client.CurrentCashRegister(context.Background())
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	err := client.Delete(context.Background(), "/api/v1/products/x")
	assert.NoError(t, err)
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListProducts(ctx)
	assert.Error(t, err)
}
