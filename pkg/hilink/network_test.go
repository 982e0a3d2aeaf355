package hilink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNetworkService_Mode(t *testing.T) {
	client, mockTransport := newMockClient()
	mockTransport.On("Call", mock.Anything, "/api/net/net-mode", []byte(nil), false).
		Return("<response><NetworkMode>0302</NetworkMode><NetworkBand>3FFFFFFF</NetworkBand><LTEBand>7FFFFFFFFFFFFFFF</LTEBand></response>", nil)

	mode, err := client.Network.Mode(context.Background())

	require.NoError(t, err)
	assert.Equal(t, NetworkMode4GPreferred3G, mode.NetworkMode)
	assert.Equal(t, "4G Preferred, 3G Fallback", mode.ModeText())
	assert.False(t, mode.IsAuto())
	assert.False(t, mode.Is4GOnly())
	assert.Equal(t, "7FFFFFFFFFFFFFFF", mode.LTEBand)
}

func TestNetworkService_SetModeDefaultsBands(t *testing.T) {
	client, mockTransport := newMockClient()
	mockTransport.On("Call", mock.Anything, "/api/net/net-mode", bodyContains(
		"<NetworkMode>03</NetworkMode>",
		"<NetworkBand>3fffffff</NetworkBand>",
		"<LTEBand>80800C5</LTEBand>",
	), true).Return("<response>OK</response>", nil)

	err := client.Network.SetMode(context.Background(), &NetworkModeParams{Mode: NetworkMode4GOnly})

	require.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestNetworkService_SetModeCustomBands(t *testing.T) {
	client, mockTransport := newMockClient()
	mockTransport.On("Call", mock.Anything, "/api/net/net-mode", bodyContains(
		"<NetworkMode>00</NetworkMode>",
		"<NetworkBand>100200000CE80380</NetworkBand>",
		"<LTEBand>800C5</LTEBand>",
	), true).Return("<response>OK</response>", nil)

	err := client.Network.SetMode(context.Background(), &NetworkModeParams{
		Mode:        NetworkModeAuto,
		NetworkBand: "100200000CE80380",
		LTEBand:     "800C5",
	})

	require.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestNetworkService_SetModeInvalid(t *testing.T) {
	client, mockTransport := newMockClient()

	assert.ErrorIs(t, client.Network.SetMode(context.Background(), nil), ErrConfig)
	assert.ErrorIs(t, client.Network.SetMode(context.Background(), &NetworkModeParams{Mode: "09"}), ErrConfig)
	mockTransport.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNetworkService_CurrentPLMN(t *testing.T) {
	client, mockTransport := newMockClient()
	mockTransport.On("Call", mock.Anything, "/api/net/current-plmn", []byte(nil), false).
		Return("<response><State>0</State><FullName></FullName><ShortName>Telekom.de</ShortName><Numeric>26201</Numeric><Rat>7</Rat></response>", nil)

	plmn, err := client.Network.CurrentPLMN(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Telekom.de", plmn.OperatorName())
	assert.Equal(t, "26201", plmn.Numeric)

	plmn.FullName = "Telekom Deutschland"
	assert.Equal(t, "Telekom Deutschland", plmn.OperatorName())
}

func TestParseNetworkMode(t *testing.T) {
	tests := []struct {
		in   string
		want NetworkModeCode
	}{
		{"auto", NetworkModeAuto},
		{"2G", NetworkMode2GOnly},
		{"3g", NetworkMode3GOnly},
		{"lte", NetworkMode4GOnly},
		{"4g-preferred", NetworkMode4GPreferred3G},
		{"0201", NetworkMode3GPreferred2G},
		{"0301", NetworkMode4GPreferred2G},
	}
	for _, tt := range tests {
		got, err := ParseNetworkMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseNetworkMode("6g")
	assert.ErrorIs(t, err, ErrConfig)
}
