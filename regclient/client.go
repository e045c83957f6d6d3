/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package regclient defines a client nodes use to register with, and look up
// topic owners in, a mothership server
package regclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/registry"
	"github.com/suparena/mothership/storagemodels"
)

var (
	// ErrNoLocation indicates that no mothership address has been configured
	ErrNoLocation = stderrors.New("regclient: no mothership location specified")

	// HTTPClient is hoisted here in case you'd like to use a different client instance
	// by default we just use http.DefaultClient
	HTTPClient = http.DefaultClient
)

// Config encapsulates options for talking to a mothership
type Config struct {
	// Location is the URL base to call to, eg. http://mothership:8080
	Location string
}

// Client wraps a mothership location with the directory operations
type Client struct {
	cfg        *Config
	httpClient *http.Client
}

// NewClient creates a client for the configured mothership
func NewClient(cfg *Config) *Client {
	return &Client{cfg, HTTPClient}
}

// Register claims ownership of topic for this node. The mothership records
// the host it sees the request coming from, joined with port.
func (c *Client) Register(ctx context.Context, topic, nodeID string, port int) error {
	if c.cfg.Location == "" {
		return ErrNoLocation
	}

	data, err := json.Marshal(map[string]interface{}{
		"topic_name": topic,
		"node_id":    nodeID,
		"node_port":  port,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/register"), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewUnavailableError(registry.OpRegister, topic, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return errors.NewValidationError("", readError(res.Body))
	default:
		return errors.NewUnavailableError(registry.OpRegister, topic, fmt.Errorf("status %d", res.StatusCode))
	}
}

// Resolve looks up the current owner of topic
func (c *Client) Resolve(ctx context.Context, topic string) (*storagemodels.Resolution, error) {
	if c.cfg.Location == "" {
		return nil, ErrNoLocation
	}
	if topic == "" {
		return nil, errors.NewValidationError("topic_name", "must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/topics/"+url.PathEscape(topic)), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUnavailableError(registry.OpResolve, topic, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.NewUnavailableError(registry.OpResolve, topic, err)
	}

	switch res.StatusCode {
	case http.StatusOK:
		out := &storagemodels.Resolution{}
		if err := json.Unmarshal(body, out); err != nil {
			return nil, errors.NewUnavailableError(registry.OpResolve, topic, err)
		}
		return out, nil
	case http.StatusBadRequest:
		return nil, errors.NewNotFoundError("topic", topic)
	case http.StatusInternalServerError:
		env := struct {
			Error string `json:"error"`
		}{}
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			return nil, errors.NewCorruptRecordError(topic, nil, env.Error)
		}
		return nil, errors.NewUnavailableError(registry.OpResolve, topic, fmt.Errorf("status %d", res.StatusCode))
	default:
		return nil, errors.NewUnavailableError(registry.OpResolve, topic, fmt.Errorf("status %d", res.StatusCode))
	}
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.cfg.Location, "/") + path
}

func readError(r io.Reader) string {
	env := struct {
		Error string `json:"error"`
	}{}
	if err := json.NewDecoder(r).Decode(&env); err != nil || env.Error == "" {
		return "rejected by mothership"
	}
	return env.Error
}
