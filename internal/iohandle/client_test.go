package iohandle_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phingest/phingest/internal/iohandle"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	var gotPath, gotQuery, gotUser, gotPass, gotMethod string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			gotUser, gotPass, _ = r.BasicAuth()
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &gotBody)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"responseCode":1}`))
		}))
	defer srv.Close()

	c := iohandle.New(config.HandleConfig{
		Host:     srv.URL,
		Admin:    "300:21.T11998/ADMIN",
		Password: "secret",
	})

	id := ident.Identifier{Prefix: "21.T11998", Suffix: "P2023-05-01.I1"}
	err := c.Register(context.Background(), id,
		"https://example.org/view/P2023-05-01.I1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/handles/21.T11998/P2023-05-01.I1", gotPath)
	assert.Equal(t, "overwrite=false", gotQuery)
	assert.Equal(t, "300%3A21.T11998%2FADMIN", gotUser)
	assert.Equal(t, "secret", gotPass)

	values := gotBody["values"].([]any)
	require.Len(t, values, 1)
	v := values[0].(map[string]any)
	assert.Equal(t, "URL", v["type"])
	data := v["data"].(map[string]any)
	assert.Equal(t, "https://example.org/view/P2023-05-01.I1", data["value"])
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"already bound", http.StatusConflict},
		{"unauthorized", http.StatusUnauthorized},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(`{"responseCode":101,"message":"no"}`))
				}))
			defer srv.Close()

			c := iohandle.New(config.HandleConfig{Host: srv.URL})
			id := ident.Identifier{Prefix: "abc", Suffix: "P2023-05-01.I1"}
			err := c.Register(context.Background(), id, "https://x.org")
			assert.True(t, errcode.Is(err, errcode.RegistrationFailedError))
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := iohandle.New(config.HandleConfig{Host: url})
		id := ident.Identifier{Prefix: "abc", Suffix: "P2023-05-01.I1"}
		err := c.Register(context.Background(), id, "https://x.org")
		assert.True(t, errcode.Is(err, errcode.RegistrationFailedError))
	})
}
