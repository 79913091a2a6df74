// Package iomirror copies ingested items to an external content dataset
// with a Sanity style HTTP API. The image is uploaded as an asset, tags
// and the item document are created with one mutation request.
package iomirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
)

const timeout = 60 * time.Second

// Client mirrors items to one dataset.
type Client struct {
	baseURL string
	dataset string
	token   string
	http    *http.Client
	enc     gnfmt.GNjson
}

var _ lifecycle.Mirror = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// OptBaseURL replaces "https://{project}.api.sanity.io/{version}".
func OptBaseURL(s string) Option {
	return func(c *Client) {
		c.baseURL = s
	}
}

// New creates a client from dataset settings.
func New(cfg config.DatasetConfig, opts ...Option) *Client {
	res := &Client{
		baseURL: fmt.Sprintf("https://%s.api.sanity.io/%s",
			cfg.ProjectID, cfg.APIVersion),
		dataset: cfg.Dataset,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// DocID is the id of the item document. It is derived from the
// identifier, so mirroring an item twice does not create a second
// document.
func DocID(id ident.Identifier) string {
	return "photo-" + gnuuid.New(id.String()).String()
}

// Mirror uploads the image and creates tag documents and the item
// document if they do not exist. It returns the document id.
func (c *Client) Mirror(
	ctx context.Context,
	item lifecycle.MirrorItem,
) (string, error) {
	id := item.Identifier.String()

	assetID, err := c.uploadImage(ctx, item)
	if err != nil {
		return "", MirrorError(id, "asset upload", err)
	}

	docID := DocID(item.Identifier)
	muts := make([]mutation, 0, len(item.Tags)+1)
	refs := make([]reference, 0, len(item.Tags))
	for _, v := range item.Tags {
		muts = append(muts, mutation{CreateIfNotExists: map[string]any{
			"_id":   v.ID,
			"_type": "tag",
			"name":  v.Name,
		}})
		refs = append(refs, reference{Key: v.ID, Type: "reference", Ref: v.ID})
	}

	doc := map[string]any{
		"_id":       docID,
		"_type":     "photo",
		"objectID":  item.Identifier.Suffix,
		"hdlPrefix": item.Identifier.Prefix,
		"photo": map[string]any{
			"_type": "image",
			"asset": reference{Type: "reference", Ref: assetID},
		},
	}
	if len(refs) > 0 {
		doc["tags"] = refs
	}
	if item.Artist != "" {
		doc["artist"] = item.Artist
	}
	if item.Filename != "" {
		doc["filename"] = item.Filename
	}
	muts = append(muts, mutation{CreateIfNotExists: doc})

	if err = c.mutate(ctx, muts); err != nil {
		return "", MirrorError(id, "mutation", err)
	}

	slog.Debug("Item mirrored", "identifier", id, "document", docID,
		"asset", assetID)
	return docID, nil
}

type reference struct {
	Key  string `json:"_key,omitempty"`
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

type mutation struct {
	CreateIfNotExists map[string]any `json:"createIfNotExists"`
}

type mutations struct {
	Mutations []mutation `json:"mutations"`
}

type assetResponse struct {
	Document struct {
		ID string `json:"_id"`
	} `json:"document"`
}

func (c *Client) uploadImage(
	ctx context.Context,
	item lifecycle.MirrorItem,
) (string, error) {
	u := fmt.Sprintf("%s/assets/images/%s", c.baseURL, url.PathEscape(c.dataset))
	if item.Filename != "" {
		u += "?filename=" + url.QueryEscape(item.Filename)
	}

	data, err := c.post(ctx, u, item.ContentType, item.Image)
	if err != nil {
		return "", err
	}

	var res assetResponse
	if err = c.enc.Decode(data, &res); err != nil {
		return "", err
	}
	if res.Document.ID == "" {
		return "", fmt.Errorf("asset id is missing in response")
	}
	return res.Document.ID, nil
}

func (c *Client) mutate(ctx context.Context, muts []mutation) error {
	body, err := c.enc.Encode(mutations{Mutations: muts})
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/data/mutate/%s?returnIds=true&visibility=sync",
		c.baseURL, url.PathEscape(c.dataset),
	)
	_, err = c.post(ctx, u, "application/json", body)
	return err
}

func (c *Client) post(
	ctx context.Context,
	u, contentType string,
	body []byte,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, u, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}
	return data, nil
}
