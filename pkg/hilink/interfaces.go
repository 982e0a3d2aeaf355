package hilink

import (
	"context"
)

// DeviceService handles device identity and power control
type DeviceService interface {
	// Information retrieves model, firmware and identifiers
	Information(ctx context.Context) (*DeviceInformation, error)

	// Reboot restarts the device
	Reboot(ctx context.Context) error

	// PowerOff shuts the device down
	PowerOff(ctx context.Context) error

	// Control sends a raw control command
	Control(ctx context.Context, control ControlType) error
}

// MonitoringService handles connection monitoring
type MonitoringService interface {
	// Status retrieves connection, signal and SIM state
	Status(ctx context.Context) (*MonitoringStatus, error)
}

// SMSService handles the message store
type SMSService interface {
	// Count retrieves message counters per box
	Count(ctx context.Context) (*SMSCount, error)

	// List retrieves one page of messages
	List(ctx context.Context, params *SMSListParams) (*SMSList, error)

	// Delete removes a message by index
	Delete(ctx context.Context, index string) error

	// MarkRead marks a message as read
	MarkRead(ctx context.Context, index string) error
}

// NetworkService handles radio mode and operator selection
type NetworkService interface {
	// Mode retrieves the configured network mode and bands
	Mode(ctx context.Context) (*NetworkMode, error)

	// SetMode changes the network mode
	SetMode(ctx context.Context, params *NetworkModeParams) error

	// CurrentPLMN retrieves the registered operator
	CurrentPLMN(ctx context.Context) (*PLMN, error)
}

// DHCPService handles LAN DHCP settings
type DHCPService interface {
	// Settings retrieves the DHCP configuration
	Settings(ctx context.Context) (*DHCPSettings, error)

	// SetSettings replaces the DHCP configuration
	SetSettings(ctx context.Context, settings *DHCPSettings) error
}

// AuthService handles authentication
type AuthService interface {
	// State retrieves the login state without authenticating
	State(ctx context.Context) (*LoginState, error)

	// Login authenticates unless the device already reports a session
	Login(ctx context.Context, username, password string) error

	// Logout ends the session and clears local state
	Logout(ctx context.Context) error
}
