package hilink

import (
	"context"

	"github.com/pkg/errors"
)

const (
	netModeEndpoint     = "/api/net/net-mode"
	currentPLMNEndpoint = "/api/net/current-plmn"
)

// networkService implements the NetworkService interface
type networkService struct {
	client *Client
}

// Mode retrieves the configured network mode and bands
func (s *networkService) Mode(ctx context.Context) (*NetworkMode, error) {
	mode, err := fetch[NetworkMode](ctx, s.client, netModeEndpoint, nil, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get network mode")
	}
	return mode, nil
}

// SetMode changes the network mode
func (s *networkService) SetMode(ctx context.Context, params *NetworkModeParams) error {
	if params == nil || !params.Mode.Valid() {
		return &Error{Kind: KindConfigError, Message: "a valid network mode is required"}
	}

	req := networkModeRequest{
		NetworkMode: string(params.Mode),
		NetworkBand: params.NetworkBand,
		LTEBand:     params.LTEBand,
	}
	if req.NetworkBand == "" {
		req.NetworkBand = DefaultNetworkBand
	}
	if req.LTEBand == "" {
		req.LTEBand = DefaultLTEBand
	}

	if err := s.client.mutate(ctx, netModeEndpoint, req); err != nil {
		return errors.Wrap(err, "failed to set network mode")
	}
	return nil
}

// CurrentPLMN retrieves the registered operator
func (s *networkService) CurrentPLMN(ctx context.Context) (*PLMN, error) {
	plmn, err := fetch[PLMN](ctx, s.client, currentPLMNEndpoint, nil, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current plmn")
	}
	return plmn, nil
}
