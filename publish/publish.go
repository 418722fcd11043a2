// Package publish uploads a finished container to a content-addressable
// endpoint and builds the viewer locator for the returned hash.
//
// A publish failure never invalidates the local artifact: the error type
// is distinct so callers can retry publication without re-exporting.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/webaverse/go-gltf/debug"
)

const (
	DefaultEndpoint  = "https://ipfs.exokit.org"
	DefaultViewerURL = "https://app.webaverse.com/preview.html"

	// ContentType is the media type of a packed container body.
	ContentType = "model/gltf-binary"

	defaultTimeout = 60 * time.Second
)

var ErrPublish = errors.New("publish error")

// Error is a retryable publish fault. It is distinct from export faults:
// when it occurs the local artifact on disk is already complete and valid.
type Error struct {
	Status int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("publish failed: %s (status %d)", e.Reason, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("publish failed: %s: %v", e.Reason, e.Err)
	}
	return "publish failed: " + e.Reason
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPublish, e.Err}
	}
	return []error{ErrPublish}
}

// Receipt is a successful publication: the content hash assigned by the
// endpoint and the viewer URL built from it.
type Receipt struct {
	Hash      string
	ViewerURL string
}

// Publisher posts container bytes to the upload endpoint. The zero value
// is not usable; construct with New.
type Publisher struct {
	Endpoint    string
	ViewerBase  string
	ContentType string
	Client      *http.Client
	Log         *slog.Logger

	// OpenViewer, when non-nil, is called with the viewer URL after a
	// successful upload. Opening failures are logged, not returned: the
	// publication itself succeeded.
	OpenViewer func(url string) error
}

func New() *Publisher {
	return &Publisher{
		Endpoint:    DefaultEndpoint,
		ViewerBase:  DefaultViewerURL,
		ContentType: ContentType,
		Client:      &http.Client{Timeout: defaultTimeout},
		Log:         slog.Default(),
	}
}

// Publish sends data as the body of a single POST and parses the content
// hash from the JSON response. ext is the viewer extension parameter
// ("glb" or "vrm").
func (p *Publisher) Publish(ctx context.Context, data []byte, ext string) (*Receipt, error) {
	if debug.Publish() {
		p.Log.Debug("publishing", "bytes", len(data), "endpoint", p.Endpoint)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Reason: "building request", Err: err}
	}
	req.Header.Set("Content-Type", p.ContentType)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &Error{Reason: "endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Reason: "reading response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Reason: "non-success response"}
	}

	var res struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &Error{Status: resp.StatusCode, Reason: "malformed response body", Err: err}
	}
	if res.Hash == "" {
		return nil, &Error{Status: resp.StatusCode, Reason: "response has no hash field"}
	}

	receipt := &Receipt{
		Hash:      res.Hash,
		ViewerURL: p.viewerURL(res.Hash, ext),
	}
	if p.OpenViewer != nil {
		if err := p.OpenViewer(receipt.ViewerURL); err != nil {
			p.Log.Warn("could not open viewer", "url", receipt.ViewerURL, "err", err)
		}
	}
	return receipt, nil
}

func (p *Publisher) viewerURL(hash, ext string) string {
	q := url.Values{}
	q.Set("hash", hash)
	q.Set("ext", ext)
	return p.ViewerBase + "?" + q.Encode()
}

// OpenBrowser opens u in the system browser.
func OpenBrowser(u string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u).Start()
	default:
		return exec.Command("xdg-open", u).Start()
	}
}
