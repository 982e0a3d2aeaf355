package hilink

import (
	"context"

	"github.com/pkg/errors"
)

const monitoringStatusEndpoint = "/api/monitoring/status"

// monitoringService implements the MonitoringService interface
type monitoringService struct {
	client *Client
}

// Status retrieves connection, signal and SIM state
func (s *monitoringService) Status(ctx context.Context) (*MonitoringStatus, error) {
	status, err := fetch[MonitoringStatus](ctx, s.client, monitoringStatusEndpoint, nil, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get monitoring status")
	}
	return status, nil
}
