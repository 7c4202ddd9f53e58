// Package api implements the low-level client for the blazee REST API.
// The methods of the [Client] type correspond one-to-one to the service
// endpoints; the higher-level blazee package composes them into the
// deployment workflow most callers want.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"runtime"

	"github.com/blazee-io/blazee-go/envconfig"
	"github.com/blazee-io/blazee-go/version"
)

// Config is the immutable configuration of a [Client]. Host and HTTPClient
// are optional; APIKey is not.
type Config struct {
	Host       *url.URL
	APIKey     string
	HTTPClient *http.Client
}

// Client encapsulates client state for interacting with the blazee
// service. Use [NewClient] or [ClientFromEnvironment] to create one.
type Client struct {
	base *url.URL
	key  string
	http *http.Client
}

// NewClient creates a [Client] from an explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	base := cfg.Host
	if base == nil {
		base = envconfig.Host()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		base: base,
		key:  cfg.APIKey,
		http: httpClient,
	}, nil
}

// ClientFromEnvironment creates a [Client] configured from the BLAZEE_HOST
// and BLAZEE_API_KEY environment variables.
func ClientFromEnvironment() (*Client, error) {
	return NewClient(Config{
		Host:   envconfig.Host(),
		APIKey: envconfig.APIKey(),
	})
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode >= http.StatusInternalServerError {
		return ServerError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if resp.StatusCode == http.StatusForbidden {
		return AuthenticationError{StatusCode: resp.StatusCode}
	}

	// The service reports structured errors in an `error` field, which may
	// accompany any status code.
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return nil
	}

	var apiError APIError
	if err := json.Unmarshal(envelope.Error, &apiError); err != nil {
		// Not the structured shape; surface the raw field as the message.
		var msg string
		if json.Unmarshal(envelope.Error, &msg) != nil {
			msg = string(envelope.Error)
		}
		apiError = APIError{Message: msg}
	}
	apiError.StatusCode = resp.StatusCode

	return apiError
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}

		reqBody = bytes.NewReader(data)
	}

	requestURL := c.base.JoinPath(path)

	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("X-Api-Key", c.key)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("blazee-go/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	respObj, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer respObj.Body.Close()

	respBody, err := io.ReadAll(respObj.Body)
	if err != nil {
		return err
	}

	if err := checkError(respObj, respBody); err != nil {
		return err
	}

	if len(respBody) > 0 && respData != nil {
		if err := json.Unmarshal(respBody, respData); err != nil {
			return err
		}
	}
	return nil
}

// Upload posts content to a pre-signed upload target as a multipart form.
// This is a direct binary transfer to the storage backend: it carries no
// API key and its errors are [UploadError], never [APIError].
func (c *Client) Upload(ctx context.Context, upload *UploadData, content []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range upload.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}

	// The storage backend requires the file part to come after the fields.
	fw, err := mw.CreateFormFile("file", "model.zip")
	if err != nil {
		return err
	}
	if _, err := fw.Write(content); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, upload.URL, &body)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return UploadError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
