package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><nav>menu</nav><article><p>Readable <em>text</em> & more</p></article></body></html>`))
		case "/price":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"price":"1.0"}`))
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<article><p>Caf\xe9 cr\xe8me</p></article>"))
		case "/empty":
		}
	}))
	defer srv.Close()

	tool := NewContentTool(nil, nil)

	t.Run("extracted", func(t *testing.T) {
		url := srv.URL + "/article"
		out, err := tool.Call(context.Background(), `{"url":"`+url+`"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"url":"`+url+`","plaintext_content":"Readable text & more"}`, out)
	})

	t.Run("latin-1 page", func(t *testing.T) {
		url := srv.URL + "/latin1"
		out, err := tool.Call(context.Background(), `{"url":"`+url+`"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"url":"`+url+`","plaintext_content":"Café crème"}`, out)
	})

	t.Run("raw fallback", func(t *testing.T) {
		url := srv.URL + "/price"
		out, err := tool.Call(context.Background(), `{"url":"`+url+`"}`)
		require.NoError(t, err)

		var got contentOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, contentOutput{URL: url, PlaintextContent: `{"price":"1.0"}`}, got)
	})

	t.Run("nothing extracted", func(t *testing.T) {
		url := srv.URL + "/empty"
		out, err := tool.Call(context.Background(), `{"url":"`+url+`"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"error":"Failed to extract content from the website.","url":"`+url+`"}`, out)
	})

	t.Run("invalid url", func(t *testing.T) {
		out, err := tool.Call(context.Background(), `{"url":""}`)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "{\n \"error\": "), out)

		var got contentFailure
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "", got.URL)
		assert.Contains(t, got.Error, "no scheme supplied")
	})
}
