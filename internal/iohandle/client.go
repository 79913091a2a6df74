// Package iohandle is a client of a Handle.net style naming service.
// It binds identifiers to locations with the REST API:
//
//	PUT {host}/api/handles/{prefix}/{suffix}?overwrite=false
package iohandle

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
)

const timeout = 30 * time.Second

// Client registers identifiers with the naming service.
type Client struct {
	host     string
	admin    string
	password string
	http     *http.Client
}

var _ lifecycle.Registrar = (*Client)(nil)

// New creates a client from handle settings.
func New(cfg config.HandleConfig) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.SkipTLSVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		host:     cfg.Host,
		admin:    cfg.Admin,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: tr},
	}
}

type handleValue struct {
	Index int       `json:"index"`
	Type  string    `json:"type"`
	Data  valueData `json:"data"`
}

type valueData struct {
	Format string `json:"format"`
	Value  string `json:"value"`
}

type handleRecord struct {
	Values []handleValue `json:"values"`
}

type response struct {
	ResponseCode int    `json:"responseCode"`
	Handle       string `json:"handle"`
	Message      string `json:"message"`
}

// Register binds id to location. An existing binding is not overwritten
// and is reported as an error.
func (c *Client) Register(
	ctx context.Context,
	id ident.Identifier,
	location string,
) error {
	body, err := json.Marshal(handleRecord{
		Values: []handleValue{{
			Index: 1,
			Type:  "URL",
			Data:  valueData{Format: "string", Value: location},
		}},
	})
	if err != nil {
		return RegistrationError(id.String(), err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.handleURL(id), bytes.NewReader(body),
	)
	if err != nil {
		return RegistrationError(id.String(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(url.QueryEscape(c.admin), c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return RegistrationError(id.String(), err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var r response
		_ = json.Unmarshal(data, &r)
		err = fmt.Errorf("status %d, response code %d: %s",
			resp.StatusCode, r.ResponseCode, r.Message)
		if resp.StatusCode == http.StatusConflict {
			return AlreadyBoundError(id.String(), err)
		}
		return RegistrationError(id.String(), err)
	}

	slog.Debug("Identifier bound", "identifier", id.String(),
		"location", location, "status", resp.StatusCode)
	return nil
}

func (c *Client) handleURL(id ident.Identifier) string {
	return fmt.Sprintf("%s/api/handles/%s/%s?overwrite=false",
		c.host, url.PathEscape(id.Prefix), url.PathEscape(id.Suffix))
}
