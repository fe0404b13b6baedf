package server

import (
	"time"

	"github.com/matzehuels/swipestack/internal/config"
	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/stack"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// createRequest overrides session defaults. Nil fields keep them.
type createRequest struct {
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Visible  *int     `json:"visible"`
	Items    *int     `json:"items"`
	Circular *bool    `json:"circular"`
	Policy   string   `json:"policy"`
	SettleMS *int     `json:"settle_ms"`
	Fan      *bool    `json:"fan"`
	Labels   []string `json:"labels"`
}

func (req createRequest) apply(base config.Settings) (swipe.Config, stack.Params, error) {
	cfg := base.Swipe
	cfg.OnSwipe = nil
	cfg.Logger = nil
	if req.Width != nil {
		cfg.ItemWidth = *req.Width
	}
	if req.Height != nil {
		cfg.ItemHeight = *req.Height
	}
	if req.Visible != nil {
		cfg.VisibleCount = *req.Visible
	}
	if req.Items != nil {
		cfg.ItemCount = *req.Items
	}
	if req.Circular != nil {
		cfg.Circular = *req.Circular
	}
	switch req.Policy {
	case "":
	case "half":
		cfg = cfg.WithPolicy(swipe.PolicyHalf)
	case "quarter":
		cfg = cfg.WithPolicy(swipe.PolicyQuarter)
	default:
		return cfg, stack.Params{}, serrors.New(serrors.ErrCodeInvalidConfig, "unknown policy %q", req.Policy)
	}
	if req.SettleMS != nil {
		cfg.SettleDuration = time.Duration(*req.SettleMS) * time.Millisecond
	}
	if err := cfg.Validate(); err != nil {
		return cfg, stack.Params{}, err
	}

	// Keep the configured look but follow the session's ring.
	params := base.Stack
	params.Spacing = cfg.StackSpacing
	params.Visible = cfg.Items()
	params.Items = cfg.Items()
	if req.Fan != nil {
		params.Fan = *req.Fan
	}
	return cfg, params, nil
}

type createResponse struct {
	ID  string `json:"id"`
	Top int    `json:"top"`
}

type sessionResponse struct {
	ID string `json:"id"`
	view
}

type pointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target *int    `json:"target"`
}

type releaseRequest struct {
	Velocity float64 `json:"velocity"`
}

type swipeRequest struct {
	Direction string `json:"direction"`
}

type dragResponse struct {
	Accepted bool `json:"accepted"`
	view
}

type outcomeResponse struct {
	Outcome string `json:"outcome"`
	view
}

type frameResponse struct {
	Layers []layerResponse `json:"layers"`
}

type layerResponse struct {
	stack.Placement
	Label string `json:"label"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
