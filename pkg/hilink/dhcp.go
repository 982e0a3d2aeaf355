package hilink

import (
	"context"

	"github.com/pkg/errors"
)

const dhcpSettingsEndpoint = "/api/dhcp/settings"

// dhcpService implements the DHCPService interface
type dhcpService struct {
	client *Client
}

// Settings retrieves the DHCP configuration
func (s *dhcpService) Settings(ctx context.Context) (*DHCPSettings, error) {
	settings, err := fetch[DHCPSettings](ctx, s.client, dhcpSettingsEndpoint, nil, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get dhcp settings")
	}
	return settings, nil
}

// SetSettings replaces the DHCP configuration
func (s *dhcpService) SetSettings(ctx context.Context, settings *DHCPSettings) error {
	if settings == nil {
		return errors.New("dhcp settings are required")
	}

	req := dhcpSettingsRequest{
		GatewayIP:    settings.GatewayIP,
		Netmask:      settings.Netmask,
		DHCPStatus:   settings.DHCPStatus,
		StartIP:      settings.StartIP,
		EndIP:        settings.EndIP,
		LeaseTime:    settings.LeaseTime,
		DNSStatus:    settings.DNSStatus,
		PrimaryDNS:   settings.PrimaryDNS,
		SecondaryDNS: settings.SecondaryDNS,
	}
	if err := s.client.mutate(ctx, dhcpSettingsEndpoint, req); err != nil {
		return errors.Wrap(err, "failed to set dhcp settings")
	}
	return nil
}
