package hilink

import (
	"context"

	"github.com/pkg/errors"
)

const (
	deviceInformationEndpoint = "/api/device/information"
	deviceControlEndpoint     = "/api/device/control"
)

// deviceService implements the DeviceService interface
type deviceService struct {
	client *Client
}

// Information retrieves model, firmware and identifiers
func (s *deviceService) Information(ctx context.Context) (*DeviceInformation, error) {
	info, err := fetch[DeviceInformation](ctx, s.client, deviceInformationEndpoint, nil, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get device information")
	}
	return info, nil
}

// Reboot restarts the device
func (s *deviceService) Reboot(ctx context.Context) error {
	return s.Control(ctx, ControlReboot)
}

// PowerOff shuts the device down
func (s *deviceService) PowerOff(ctx context.Context) error {
	return s.Control(ctx, ControlPowerOff)
}

// Control sends a raw control command
func (s *deviceService) Control(ctx context.Context, control ControlType) error {
	if control < ControlReboot || control > ControlPowerOff {
		return &Error{Kind: KindConfigError, Message: "unknown control type " + control.String()}
	}

	if err := s.client.mutate(ctx, deviceControlEndpoint, controlRequest{Control: int(control)}); err != nil {
		return errors.Wrapf(err, "failed to send %s", control)
	}
	return nil
}
