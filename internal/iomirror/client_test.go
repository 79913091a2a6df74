package iomirror_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phingest/phingest/internal/iomirror"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dataset struct {
	assets    [][]byte
	types     []string
	mutations []map[string]any
	auth      []string
	failMut   bool
}

func (d *dataset) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /assets/images/photos", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		d.assets = append(d.assets, body)
		d.types = append(d.types, r.Header.Get("Content-Type"))
		d.auth = append(d.auth, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"document":{"_id":"image-abc-100x50-jpg"}}`)
	})
	mux.HandleFunc("POST /data/mutate/photos", func(w http.ResponseWriter, r *http.Request) {
		if d.failMut {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		assert.Equal(t, "true", r.URL.Query().Get("returnIds"))
		var m map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		d.mutations = append(d.mutations, m)
		_, _ = io.WriteString(w, `{"transactionId":"t1","results":[]}`)
	})
	return mux
}

func setup(t *testing.T) (*dataset, *iomirror.Client) {
	d := &dataset{}
	srv := httptest.NewServer(d.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.DatasetConfig{
		ProjectID: "proj", Dataset: "photos", Token: "secret",
		APIVersion: "v2021-06-07",
	}
	return d, iomirror.New(cfg, iomirror.OptBaseURL(srv.URL))
}

func TestMirror(t *testing.T) {
	d, c := setup(t)
	id := ident.Identifier{Prefix: "abc123", Suffix: "P2023-05-01.I1"}
	ts, err := tags.FromNames([]string{"street"})
	require.NoError(t, err)

	docID, err := c.Mirror(context.Background(), lifecycle.MirrorItem{
		Identifier:  id,
		Image:       []byte("jpeg bytes"),
		ContentType: "image/jpeg",
		Artist:      "Jane Doe",
		Tags:        ts,
	})
	require.NoError(t, err)
	assert.Equal(t, iomirror.DocID(id), docID)
	assert.True(t, strings.HasPrefix(docID, "photo-"))

	require.Len(t, d.assets, 1)
	assert.Equal(t, "jpeg bytes", string(d.assets[0]))
	assert.Equal(t, "image/jpeg", d.types[0])
	assert.Equal(t, "Bearer secret", d.auth[0])

	require.Len(t, d.mutations, 1)
	muts := d.mutations[0]["mutations"].([]any)
	require.Len(t, muts, 2)

	tag := muts[0].(map[string]any)["createIfNotExists"].(map[string]any)
	assert.Equal(t, "tag", tag["_type"])
	assert.Equal(t, "tag_street", tag["_id"])

	doc := muts[1].(map[string]any)["createIfNotExists"].(map[string]any)
	assert.Equal(t, "photo", doc["_type"])
	assert.Equal(t, docID, doc["_id"])
	assert.Equal(t, "P2023-05-01.I1", doc["objectID"])
	assert.Equal(t, "abc123", doc["hdlPrefix"])
	assert.Equal(t, "Jane Doe", doc["artist"])
	asset := doc["photo"].(map[string]any)["asset"].(map[string]any)
	assert.Equal(t, "image-abc-100x50-jpg", asset["_ref"])
	refs := doc["tags"].([]any)
	assert.Equal(t, "tag_street", refs[0].(map[string]any)["_ref"])
}

func TestDocID(t *testing.T) {
	a := ident.Identifier{Prefix: "abc123", Suffix: "P2023-05-01.I1"}
	b := ident.Identifier{Prefix: "abc123", Suffix: "P2023-05-01.I2"}
	assert.Equal(t, iomirror.DocID(a), iomirror.DocID(a))
	assert.NotEqual(t, iomirror.DocID(a), iomirror.DocID(b))
}

func TestMirror_Failure(t *testing.T) {
	d, c := setup(t)
	d.failMut = true
	id := ident.Identifier{Prefix: "abc123", Suffix: "P2023-05-01.I1"}

	_, err := c.Mirror(context.Background(), lifecycle.MirrorItem{
		Identifier: id, Image: []byte("x"), ContentType: "image/jpeg",
	})
	assert.True(t, errcode.Is(err, errcode.MirrorFailedError))

	unreachable := iomirror.New(config.DatasetConfig{Dataset: "photos"},
		iomirror.OptBaseURL("http://127.0.0.1:1"))
	_, err = unreachable.Mirror(context.Background(), lifecycle.MirrorItem{
		Identifier: id, Image: []byte("x"), ContentType: "image/jpeg",
	})
	assert.True(t, errcode.Is(err, errcode.MirrorFailedError))
}
