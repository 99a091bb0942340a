// Package packer is the client for the remote bin-packing service.
//
// The service computes the actual 3D packing; stowplan only visualizes
// it. The wire protocol mirrors the service's form-style request
// (parallel arrays per box field) and its per-container result list.
// The service is treated as an untrusted producer: its reported
// positions go through pkg/interpret before anything is displayed.
package packer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boxlogic/stowplan/pkg/cache"
	stowerrors "github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/httputil"
	"github.com/boxlogic/stowplan/pkg/observability"
)

// DefaultTTL is how long packing responses stay cached. Packings are
// deterministic for identical input, so the TTL mostly bounds disk use.
const DefaultTTL = 24 * time.Hour

// Client calls the packing service's /plan endpoint with caching and
// retry.
type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	ttl     time.Duration
}

// Option configures a Client.
type Option func(*Client)

/// WithHTTPClient sets the HTTP client (default: 30 s timeout).
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCache enables response caching.
func WithCache(ca cache.Cache, keyer cache.Keyer) Option {
	return func(c *Client) {
		c.cache = ca
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option { return func(c *Client) { c.ttl = ttl } }

// New creates a client for the packing service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		logger:  log.Default(),
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlanOptions tune the service-side packing run.
type PlanOptions struct {
	// BiggerFirst asks the service to place larger boxes first.
	BiggerFirst bool
	// DistributeItems spreads identical boxes across containers.
	DistributeItems bool
	// Refresh bypasses the response cache.
	Refresh bool
}

/// planRequest is the service's request shape: scalar container fields
// plus parallel arrays, one entry per box kind.
type planRequest struct {
	ContainerLength float64 `json:"container_length"`
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
	BiggerFirst     bool    `json:"bigger_first"`
	DistributeItems bool    `json:"distribute_items"`
	Rotation        bool    `json:"rotation"`
	PackingStrategy string  `json:"packing_strategy,omitempty"`

	BoxNames      []string  `json:"box_name"`
	BoxLengths    []float64 `json:"box_length"`
	BoxWidths     []float64 `json:"box_width"`
	BoxHeights    []float64 `json:"box_height"`
	BoxWeights    []float64 `json:"box_weight"`
	BoxQuantities []int     `json:"box_quantity"`
}

// ContainerResult is one packed container from the service.
type ContainerResult struct {
	ContainerName       string                `json:"container_name"`
	Utilization         string                `json:"utilization"`
	ContainerDimensions geometry.Dimensions   `json:"container_dimensions"`
	PackedItems         []geometry.PackedItem `json:"packed_items_data"`
}

// InputBox is the service's echo of one requested box kind.
type InputBox struct {
	Name     string  `json:"name"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
}

// PlanResponse is the service's full reply. The service may split the
// load across several containers; Results preserves its order.
type PlanResponse struct {
	Results       []ContainerResult `json:"results"`
	NumContainers int               `json:"num_containers"`
	InputSummary  []InputBox        `json:"input_summary,omitempty"`
	ErrorMessage  string            `json:"error_message"`
}

// serviceError is the body shape of the service's 4xx responses.
type serviceError struct {
	Error string `json:"error"`
}

// Plan submits the container and item specs to the packing service and
// returns its placement results. The boolean reports a cache hit.
//
// Inputs are validated client-side with the same rules the service
// applies, so obviously rejectable requests never cost a round trip.
// Dimensions are normalized to meters before sending. Transient
// failures are retried with backoff; a definitive service rejection
// comes back as a PACKING_SERVICE_ERROR coded error.
func (c *Client) Plan(ctx context.Context, container geometry.ContainerSpec, items []geometry.ItemSpec, opts PlanOptions) (*PlanResponse, bool, error) {
	if err := stowerrors.ValidateContainer(container); err != nil {
		return nil, false, err
	}
	if err := stowerrors.ValidateItems(container, items); err != nil {
		return nil, false, err
	}

	req := c.buildRequest(container, items, opts)

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, false, stowerrors.Wrap(stowerrors.ErrCodeInternal, err, "encode plan request")
	}
	key := c.keyer.PlanKey(cache.Hash(reqBytes))

	if !opts.Refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			var resp PlanResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				c.logger.Debug("plan cache hit", "key", key[:16])
				observability.Cache().OnCacheHit(ctx, "plan")
				return &resp, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	var resp PlanResponse
	err = httputil.RetryWithBackoff(ctx, func() error {
		return httputil.PostJSON(ctx, c.http, c.baseURL+"/plan", req, &resp)
	})
	if err != nil {
		return nil, false, classify(err)
	}
	if resp.ErrorMessage != "" {
		return nil, false, stowerrors.New(stowerrors.ErrCodeService, "%s", resp.ErrorMessage)
	}

	if data, err := json.Marshal(&resp); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Debug("plan cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}

	c.logger.Debug("plan computed remotely",
		"containers", resp.NumContainers,
		"items", totalItems(resp))
	return &resp, false, nil
}

func (c *Client) buildRequest(container geometry.ContainerSpec, items []geometry.ItemSpec, opts PlanOptions) planRequest {
	cn := container.Normalized()
	req := planRequest{
		ContainerLength: cn.Length,
		ContainerWidth:  cn.Width,
		ContainerHeight: cn.Height,
		BiggerFirst:     opts.BiggerFirst,
		DistributeItems: opts.DistributeItems,
	}
	if container.FitStrategy == geometry.FitBest {
		req.PackingStrategy = string(geometry.FitBest)
		req.BiggerFirst = true
	}

	for _, raw := range items {
		it := raw.Normalized()
		req.BoxNames = append(req.BoxNames, it.Name)
		req.BoxLengths = append(req.BoxLengths, it.Length)
		req.BoxWidths = append(req.BoxWidths, it.Width)
		req.BoxHeights = append(req.BoxHeights, it.Height)
		req.BoxWeights = append(req.BoxWeights, it.Weight)
		req.BoxQuantities = append(req.BoxQuantities, it.Quantity)
		// The rotation flag rides through to the service; stowplan's own
		// layout logic never reads it.
		req.Rotation = req.Rotation || it.RotationAllowed
	}
	return req
}

// classify translates transport-level failures into coded errors.
func classify(err error) error {
	var se *httputil.StatusError
	if errors.As(err, &se) {
		var body serviceError
		if jsonErr := json.Unmarshal(se.Body, &body); jsonErr == nil && body.Error != "" {
			return stowerrors.New(stowerrors.ErrCodeService, "%s", body.Error)
		}
		return stowerrors.Wrap(stowerrors.ErrCodeService, err, "packing service rejected the request")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return stowerrors.Wrap(stowerrors.ErrCodeTimeout, err, "packing service timed out")
	}
	return stowerrors.Wrap(stowerrors.ErrCodeNetwork, err, "packing service unreachable")
}

func totalItems(resp PlanResponse) int {
	n := 0
	for _, r := range resp.Results {
		n += len(r.PackedItems)
	}
	return n
}
