package rest

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

const statusJSON = `{"page":{"id":"kctbh9vrtdwd","name":"GitHub"},"status":{"indicator":"none","description":"All Systems Operational"}}`

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func brotlied(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zlibbed(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func flated(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func statusServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/status.json":
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Seen-Agent", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(statusJSON))
		case "/echo":
			w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(r.Body)
			_, _ = w.Write(buf.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCallAnAPI(t *testing.T) {
	ctx := context.Background()
	server := statusServer(t)

	t.Run("resolves relative URLs against the base URL", func(t *testing.T) {
		api, err := CallAnAPIAt(server.URL+"/api/v2/", WithHeaders(map[string]string{"User-Agent": "stagehand"}))
		require.NoError(t, err)
		actor := screenplay.NewActor("Apisitt").WhoCan(api)

		err = actor.AttemptsTo(ctx,
			Send(GetRequest("status.json")),
			screenplay.Ensure(LastResponseStatus(), screenplay.Equals(http.StatusOK)),
			screenplay.Ensure(LastResponseField("status", "description"), screenplay.Equals("All Systems Operational")),
			screenplay.Ensure(LastResponseHeader("X-Seen-Agent"), screenplay.Equals("stagehand")),
		)
		require.NoError(t, err)

		type status struct {
			Status struct {
				Indicator string `json:"indicator"`
			} `json:"status"`
		}
		body, err := LastResponseBody[status]().AnsweredBy(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, "none", body.Status.Indicator)
	})

	t.Run("records non-2xx responses without failing", func(t *testing.T) {
		api, err := CallAnAPIAt(server.URL)
		require.NoError(t, err)
		actor := screenplay.NewActor("Apisitt").WhoCan(api)

		require.NoError(t, actor.AttemptsTo(ctx, Send(GetRequest("/missing"))))
		status, err := LastResponseStatus().AnsweredBy(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("posts JSON", func(t *testing.T) {
		api, err := CallAnAPIAt(server.URL)
		require.NoError(t, err)
		actor := screenplay.NewActor("Apisitt").WhoCan(api)

		req, err := PostRequest("/echo", map[string]string{"name": "Buy dog food"})
		require.NoError(t, err)
		require.NoError(t, actor.AttemptsTo(ctx, Send(req)))

		name, err := LastResponseField("name").AnsweredBy(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, "Buy dog food", name)
	})

	t.Run("relative URL without a base URL", func(t *testing.T) {
		api, err := CallAnAPIAt("")
		require.NoError(t, err)
		_, err = api.Send(ctx, GetRequest("status.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no base URL is configured")
	})

	t.Run("questions before any request", func(t *testing.T) {
		api, err := CallAnAPIAt(server.URL)
		require.NoError(t, err)
		actor := screenplay.NewActor("Apisitt").WhoCan(api)

		_, err = LastResponseStatus().AnsweredBy(ctx, actor)
		assert.ErrorIs(t, err, ErrNoResponse)
	})

	t.Run("missing field", func(t *testing.T) {
		api, err := CallAnAPIAt(server.URL + "/api/v2/")
		require.NoError(t, err)
		actor := screenplay.NewActor("Apisitt").WhoCan(api)
		require.NoError(t, actor.AttemptsTo(ctx, Send(GetRequest("status.json"))))

		_, err = LastResponseField("status", "updated_at").AnsweredBy(ctx, actor)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status.updated_at not found")
	})

	t.Run("descriptions", func(t *testing.T) {
		assert.Equal(t, `#actor sends a GET request to "status.json"`, Send(GetRequest("status.json")).String())
		assert.Equal(t, "status.description of the last response body", LastResponseField("status", "description").String())
	})
}

func TestCompression(t *testing.T) {
	cases := []struct {
		name     string
		encoding string
		encode   func(*testing.T, string) []byte
	}{
		{"gzip", "gzip", gzipped},
		{"brotli", "br", brotlied},
		{"zlib deflate", "deflate", zlibbed},
		{"raw deflate", "deflate", flated},
	}

	for _, tc := range cases {
		encoding, encode := tc.encoding, tc.encode
		t.Run(tc.name, func(t *testing.T) {
			var acceptEncoding string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				acceptEncoding = r.Header.Get("Accept-Encoding")
				w.Header().Set("Content-Encoding", encoding)
				_, _ = w.Write(encode(t, statusJSON))
			}))
			defer server.Close()

			api, err := CallAnAPIAt(server.URL)
			require.NoError(t, err)
			resp, err := api.Send(context.Background(), GetRequest("/"))
			require.NoError(t, err)

			assert.Equal(t, "br, gzip, deflate, identity", acceptEncoding)
			assert.JSONEq(t, statusJSON, string(resp.Body))
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
		})
	}

	t.Run("unsupported encoding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "zstd")
			_, _ = w.Write([]byte("???"))
		}))
		defer server.Close()

		api, err := CallAnAPIAt(server.URL)
		require.NoError(t, err)
		_, err = api.Send(context.Background(), GetRequest("/"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported Content-Encoding layer: zstd")
	})
}
