package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func TestListParams_Values(t *testing.T) {
	v := ListParams{
		Page:  3,
		Size:  20,
		Query: "  alpha ",
		Sort:  []SortParam{{Field: "numero", Desc: true}, {Field: "valor"}},
	}.Values()

	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "20", v.Get("size"))
	assert.Equal(t, "alpha", v.Get("q"))
	assert.Equal(t, []string{"numero,desc", "valor,asc"}, v["sort"])
	assert.Equal(t, "numero", v.Get("sortBy"))
	assert.Equal(t, "desc", v.Get("sortDir"))

	unsorted := ListParams{Page: 1, Size: 10}.Values()
	assert.False(t, unsorted.Has("sort"))
	assert.False(t, unsorted.Has("sortBy"))
	assert.Equal(t, "", unsorted.Get("q"))
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestClient_HTTPClientOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	transport := &countingTransport{}
	shared := &http.Client{Transport: transport, Timeout: time.Minute}

	client := NewClient(srv.URL, WithHTTPClient(shared), WithTimeout(5*time.Second))
	_, err := client.List(context.Background(), "/persons", ListParams{Page: 1, Size: 10})
	require.NoError(t, err)

	assert.Equal(t, int32(1), transport.calls.Load(), "requests go through the given transport")
	assert.Equal(t, time.Minute, shared.Timeout, "the caller's client is not modified")
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)

	assert.NotPanics(t, func() {
		c := NewClient(srv.URL, WithHTTPClient(nil), WithTimeout(0))
		assert.Zero(t, c.httpClient.Timeout)
	})
}

func TestClient_List(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/persons", r.URL.Path)
		w.Header().Set(TotalCountHeader, "57")
		_, _ = io.WriteString(w, `[{"id":1,"nome":"Ana"},{"id":2,"nome":"Bia"}]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/").As(staticToken("tok-123"))
	page, err := client.List(context.Background(), "/persons", ListParams{Page: 2, Size: 10, Query: "a"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "size=10")
	assert.Contains(t, gotQuery, "q=a")
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 57, page.Total)
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).As(staticToken("")).List(context.Background(), "/suppliers", ListParams{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.False(t, hasAuth)

	_, err = NewClient(srv.URL).List(context.Background(), "/suppliers", ListParams{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestClient_CreateAndUpdate(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]any
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{r.Method, r.URL.Path, body})
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"id":9}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	created, err := client.Create(context.Background(), "/contracts", map[string]any{"numero": "CT-1", "valor": 10.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9}`, string(created))

	_, err = client.Update(context.Background(), "/contracts", "9", map[string]any{"numero": "CT-1"})
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/contracts", calls[0].path)
	assert.Equal(t, 10.5, calls[0].body["valor"])
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/contracts/9", calls[1].path)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"Fornecedor inexistente"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Create(context.Background(), "/contracts", map[string]string{})
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "Fornecedor inexistente", UserMessage(err, "falha"))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).List(context.Background(), "/contracts", ListParams{Page: 1, Size: 10})
	require.Error(t, err)
	assert.Equal(t, "falha", UserMessage(err, "falha"))
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantToken string
		wantName  string
		wantEmail string
	}{
		{name: "snake case", body: `{"access_token":"abc","nome":"Mario","email":"mario@modec.com"}`, wantToken: "abc", wantName: "Mario", wantEmail: "mario@modec.com"},
		{name: "camel case with nested user", body: `{"accessToken":"def","user":{"name":"Ana","email":"ana@modec.com"}}`, wantToken: "def", wantName: "Ana", wantEmail: "ana@modec.com"},
		{name: "token only", body: `{"token":"ghi"}`, wantToken: "ghi", wantEmail: "login@modec.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/auth/login", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "login@modec.com", body["email"])
				assert.Equal(t, "secret", body["password"])
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			auth, err := NewClient(srv.URL).Login(context.Background(), " login@modec.com ", "secret")
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, auth.AccessToken)
			assert.Equal(t, tt.wantName, auth.Name)
			assert.Equal(t, tt.wantEmail, auth.Email)
		})
	}
}

func TestClient_LoginUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "Usuário ou senha inválidos")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "a@b.com", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Usuário ou senha inválidos", UserMessage(err, "Operação não pode ser realizada"))
}

func TestClient_Register(t *testing.T) {
	var path string
	var got Registration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message":"Conta criada"}`)
	}))
	defer srv.Close()

	msg, err := NewClient(srv.URL).Register(context.Background(), "", Registration{Name: "Ana", Email: "ana@x.com", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegisterPath, path)
	assert.Equal(t, "Conta criada", msg)
	assert.Equal(t, Registration{Name: "Ana", Email: "ana@x.com", Password: "1234"}, got)

	_, err = NewClient(srv.URL).Register(context.Background(), "/persons", Registration{Name: "Bia"})
	require.NoError(t, err)
	assert.Equal(t, "/persons", path)
}
