package hilink

import (
	"encoding/xml"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/eshaffer321/hilink-go/internal/auth"
	internalTypes "github.com/eshaffer321/hilink-go/internal/types"
)

// LoginState is the document returned by the login-state endpoint.
type LoginState = auth.LoginState

// ControlType selects a device control command
type ControlType int

const (
	ControlReboot       ControlType = 1
	ControlFactoryReset ControlType = 2
	ControlBackup       ControlType = 3
	ControlPowerOff     ControlType = 4
)

func (c ControlType) String() string {
	switch c {
	case ControlReboot:
		return "reboot"
	case ControlFactoryReset:
		return "factory reset"
	case ControlBackup:
		return "backup"
	case ControlPowerOff:
		return "power off"
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// DeviceInformation describes the device
type DeviceInformation struct {
	XMLName         xml.Name `xml:"response" json:"-" yaml:"-"`
	DeviceName      string   `xml:"DeviceName" json:"deviceName" yaml:"device_name"`
	SerialNumber    string   `xml:"SerialNumber" json:"serialNumber" yaml:"serial_number"`
	Imei            string   `xml:"Imei" json:"imei" yaml:"imei"`
	Imsi            string   `xml:"Imsi" json:"imsi" yaml:"imsi"`
	Iccid           string   `xml:"Iccid" json:"iccid" yaml:"iccid"`
	Msisdn          string   `xml:"Msisdn" json:"msisdn" yaml:"msisdn"`
	HardwareVersion string   `xml:"HardwareVersion" json:"hardwareVersion" yaml:"hardware_version"`
	SoftwareVersion string   `xml:"SoftwareVersion" json:"softwareVersion" yaml:"software_version"`
	WebUIVersion    string   `xml:"WebUIVersion" json:"webUIVersion" yaml:"webui_version"`
	MacAddress1     string   `xml:"MacAddress1" json:"macAddress1" yaml:"mac_address1"`
	MacAddress2     string   `xml:"MacAddress2" json:"macAddress2,omitempty" yaml:"mac_address2,omitempty"`
	ProductFamily   string   `xml:"ProductFamily" json:"productFamily" yaml:"product_family"`
	Classify        string   `xml:"Classify" json:"classify" yaml:"classify"`
	SupportMode     string   `xml:"supportmode" json:"supportMode" yaml:"support_mode"`
	WorkMode        string   `xml:"workmode" json:"workMode" yaml:"work_mode"`
}

// ConnectionStatus is the modem connection state code (900-906)
type ConnectionStatus string

const (
	ConnectionConnecting    ConnectionStatus = "900"
	ConnectionConnected     ConnectionStatus = "901"
	ConnectionDisconnected  ConnectionStatus = "902"
	ConnectionDisconnecting ConnectionStatus = "903"
	ConnectionFailed        ConnectionStatus = "904"
	ConnectionStatusNull    ConnectionStatus = "905"
	ConnectionStatusError   ConnectionStatus = "906"
)

var connectionStatusText = map[ConnectionStatus]string{
	ConnectionConnecting:    "CONNECTING",
	ConnectionConnected:     "CONNECTED",
	ConnectionDisconnected:  "DISCONNECTED",
	ConnectionDisconnecting: "DISCONNECTING",
	ConnectionFailed:        "CONNECT_FAILED",
	ConnectionStatusNull:    "CONNECT_STATUS_NULL",
	ConnectionStatusError:   "CONNECT_STATUS_ERROR",
}

func (s ConnectionStatus) String() string {
	if text, ok := connectionStatusText[s]; ok {
		return text
	}
	return "UNKNOWN(" + string(s) + ")"
}

// IsConnected reports whether the data connection is up
func (s ConnectionStatus) IsConnected() bool {
	return s == ConnectionConnected
}

// IsFailed reports whether the last connection attempt failed
func (s ConnectionStatus) IsFailed() bool {
	return s == ConnectionFailed || s == ConnectionStatusNull || s == ConnectionStatusError
}

// NetworkType is the radio access technology code
type NetworkType string

const (
	NetworkTypeHSPA   NetworkType = "7"
	NetworkTypeLTE    NetworkType = "19"
	NetworkTypeLTECA  NetworkType = "41"
	NetworkType5GNSA  NetworkType = "101"
	NetworkType5GSA   NetworkType = "102"
	networkTypeNoInfo NetworkType = ""
)

func (t NetworkType) String() string {
	switch t {
	case NetworkTypeHSPA:
		return "HSPA (3G)"
	case NetworkTypeLTE:
		return "LTE (4G)"
	case NetworkTypeLTECA:
		return "LTE CA (4G+)"
	case NetworkType5GNSA:
		return "5G NSA"
	case NetworkType5GSA:
		return "5G SA"
	case networkTypeNoInfo:
		return "N/A"
	}
	return "Unknown (" + string(t) + ")"
}

// ExtendedText is the long name of the network type
func (t NetworkType) ExtendedText() string {
	switch t {
	case NetworkTypeHSPA:
		return "HSPA"
	case NetworkTypeLTE:
		return "LTE"
	case NetworkTypeLTECA:
		return "LTE Carrier Aggregation"
	case NetworkType5GNSA:
		return "5G Non-Standalone"
	case NetworkType5GSA:
		return "5G Standalone"
	}
	return "N/A"
}

func (t NetworkType) Is5G() bool { return t == NetworkType5GNSA || t == NetworkType5GSA }
func (t NetworkType) Is4G() bool { return t == NetworkTypeLTE || t == NetworkTypeLTECA }
func (t NetworkType) Is3G() bool { return t == NetworkTypeHSPA }

// MonitoringStatus is the connection status document
type MonitoringStatus struct {
	XMLName               xml.Name         `xml:"response" json:"-" yaml:"-"`
	ConnectionStatus      ConnectionStatus `xml:"ConnectionStatus" json:"connectionStatus" yaml:"connection_status"`
	WifiConnectionStatus  string           `xml:"WifiConnectionStatus" json:"wifiConnectionStatus,omitempty" yaml:"wifi_connection_status,omitempty"`
	SignalStrength        string           `xml:"SignalStrength" json:"signalStrength,omitempty" yaml:"signal_strength,omitempty"`
	SignalIcon            string           `xml:"SignalIcon" json:"signalIcon" yaml:"signal_icon"`
	CurrentNetworkType    NetworkType      `xml:"CurrentNetworkType" json:"currentNetworkType" yaml:"current_network_type"`
	CurrentServiceDomain  string           `xml:"CurrentServiceDomain" json:"currentServiceDomain,omitempty" yaml:"current_service_domain,omitempty"`
	RoamingStatus         string           `xml:"RoamingStatus" json:"roamingStatus" yaml:"roaming_status"`
	BatteryStatus         string           `xml:"BatteryStatus" json:"batteryStatus,omitempty" yaml:"battery_status,omitempty"`
	BatteryLevel          string           `xml:"BatteryLevel" json:"batteryLevel,omitempty" yaml:"battery_level,omitempty"`
	BatteryPercent        string           `xml:"BatteryPercent" json:"batteryPercent,omitempty" yaml:"battery_percent,omitempty"`
	SimlockStatus         string           `xml:"simlockStatus" json:"simlockStatus" yaml:"simlock_status"`
	PrimaryDNS            string           `xml:"PrimaryDns" json:"primaryDns,omitempty" yaml:"primary_dns,omitempty"`
	SecondaryDNS          string           `xml:"SecondaryDns" json:"secondaryDns,omitempty" yaml:"secondary_dns,omitempty"`
	PrimaryIPv6DNS        string           `xml:"PrimaryIPv6Dns" json:"primaryIPv6Dns,omitempty" yaml:"primary_ipv6_dns,omitempty"`
	SecondaryIPv6DNS      string           `xml:"SecondaryIPv6Dns" json:"secondaryIPv6Dns,omitempty" yaml:"secondary_ipv6_dns,omitempty"`
	FlyMode               string           `xml:"flymode" json:"flyMode" yaml:"fly_mode"`
	CurrentWifiUser       string           `xml:"CurrentWifiUser" json:"currentWifiUser,omitempty" yaml:"current_wifi_user,omitempty"`
	TotalWifiUser         string           `xml:"TotalWifiUser" json:"totalWifiUser,omitempty" yaml:"total_wifi_user,omitempty"`
	CurrentTotalWifiUser  string           `xml:"currenttotalwifiuser" json:"currentTotalWifiUser" yaml:"current_total_wifi_user"`
	ServiceStatus         string           `xml:"ServiceStatus" json:"serviceStatus" yaml:"service_status"`
	SimStatus             string           `xml:"SimStatus" json:"simStatus" yaml:"sim_status"`
	WifiStatus            string           `xml:"WifiStatus" json:"wifiStatus,omitempty" yaml:"wifi_status,omitempty"`
	CurrentNetworkTypeEx  NetworkType      `xml:"CurrentNetworkTypeEx" json:"currentNetworkTypeEx,omitempty" yaml:"current_network_type_ex,omitempty"`
	MaxSignal             string           `xml:"maxsignal" json:"maxSignal" yaml:"max_signal"`
	WifiIndoorOnly        string           `xml:"wifiindooronly" json:"wifiIndoorOnly" yaml:"wifi_indoor_only"`
	Classify              string           `xml:"classify" json:"classify,omitempty" yaml:"classify,omitempty"`
	USBUp                 string           `xml:"usbup" json:"usbUp" yaml:"usb_up"`
	WifiSwitchStatus      string           `xml:"wifiswitchstatus" json:"wifiSwitchStatus" yaml:"wifi_switch_status"`
	WifiStatusExCustom    string           `xml:"WifiStatusExCustom" json:"wifiStatusExCustom,omitempty" yaml:"wifi_status_ex_custom,omitempty"`
	HvdcpOnline           string           `xml:"hvdcp_online" json:"hvdcpOnline,omitempty" yaml:"hvdcp_online,omitempty"`
	SpeedLimitStatus      string           `xml:"speedLimitStatus" json:"speedLimitStatus,omitempty" yaml:"speed_limit_status,omitempty"`
	PoorSignalStatus      string           `xml:"poorSignalStatus" json:"poorSignalStatus,omitempty" yaml:"poor_signal_status,omitempty"`
}

// IsConnected reports whether the data connection is up
func (s *MonitoringStatus) IsConnected() bool {
	return s.ConnectionStatus.IsConnected()
}

// SignalLevel returns the signal bars (0-5). ok is false when the device did not report them.
func (s *MonitoringStatus) SignalLevel() (level int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s.SignalIcon))
	if err != nil {
		return 0, false
	}
	return n, true
}

// SignalPercent maps the signal bars to 0-100 in steps of 20.
func (s *MonitoringStatus) SignalPercent() (percent int, ok bool) {
	level, ok := s.SignalLevel()
	if !ok {
		return 0, false
	}
	if level < 0 || level > 5 {
		return 0, true
	}
	return level * 20, true
}

func (s *MonitoringStatus) IsRoaming() bool {
	return strings.TrimSpace(s.RoamingStatus) == "1"
}

func (s *MonitoringStatus) IsSIMReady() bool {
	return strings.TrimSpace(s.SimStatus) == "1"
}

// IsServiceAvailable is true for limited (1) and full (2) service
func (s *MonitoringStatus) IsServiceAvailable() bool {
	switch strings.TrimSpace(s.ServiceStatus) {
	case "1", "2":
		return true
	}
	return false
}

// SMSCount holds message counters per box
type SMSCount struct {
	XMLName     xml.Name `xml:"response" json:"-" yaml:"-"`
	LocalUnread string   `xml:"LocalUnread" json:"localUnread" yaml:"local_unread"`
	LocalInbox  string   `xml:"LocalInbox" json:"localInbox" yaml:"local_inbox"`
	LocalOutbox string   `xml:"LocalOutbox" json:"localOutbox" yaml:"local_outbox"`
	LocalDraft  string   `xml:"LocalDraft" json:"localDraft" yaml:"local_draft"`
	SimUnread   string   `xml:"SimUnread" json:"simUnread" yaml:"sim_unread"`
	SimInbox    string   `xml:"SimInbox" json:"simInbox" yaml:"sim_inbox"`
	SimOutbox   string   `xml:"SimOutbox" json:"simOutbox" yaml:"sim_outbox"`
	SimDraft    string   `xml:"SimDraft" json:"simDraft" yaml:"sim_draft"`
	NewMsg      string   `xml:"NewMsg" json:"newMsg" yaml:"new_msg"`
}

// TotalUnread sums local and SIM unread counters
func (c *SMSCount) TotalUnread() (int, error) {
	return sumCounters(c.LocalUnread, c.SimUnread)
}

// TotalInbox sums local and SIM inbox counters
func (c *SMSCount) TotalInbox() (int, error) {
	return sumCounters(c.LocalInbox, c.SimInbox)
}

// HasNewMessages reports whether the device flagged new messages
func (c *SMSCount) HasNewMessages() bool {
	n, _ := strconv.Atoi(strings.TrimSpace(c.NewMsg))
	return n > 0
}

func sumCounters(values ...string) (int, error) {
	total := 0
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, &Error{Kind: KindAPIError, Message: fmt.Sprintf("invalid counter %q", v), Err: err}
		}
		total += n
	}
	return total, nil
}

// SMSBox selects a message box
type SMSBox int

const (
	SMSBoxLocalInbox  SMSBox = 1
	SMSBoxLocalOutbox SMSBox = 2
	SMSBoxLocalDraft  SMSBox = 3
	SMSBoxSimInbox    SMSBox = 4
	SMSBoxSimOutbox   SMSBox = 5
	SMSBoxSimDraft    SMSBox = 6
)

// SMSSort selects the list order key
type SMSSort int

const (
	SMSSortByTime SMSSort = 0
	SMSSortByName SMSSort = 1
)

// Message states reported in Smstat
const (
	SMSStatusUnread      = "0"
	SMSStatusRead        = "1"
	SMSStatusPendingSend = "2"
	SMSStatusSent        = "3"
	SMSStatusSendFailed  = "4"
)

// SMSListParams selects one page of messages. Zero values take the defaults
// of DefaultSMSListParams, except the two flags.
type SMSListParams struct {
	Page            int
	Count           int
	Box             SMSBox
	Sort            SMSSort
	Ascending       bool
	UnreadPreferred bool
}

// DefaultSMSListParams returns page 1, 20 messages from the local inbox,
// newest first, unread preferred.
func DefaultSMSListParams() *SMSListParams {
	return &SMSListParams{
		Page:            1,
		Count:           20,
		Box:             SMSBoxLocalInbox,
		Sort:            SMSSortByTime,
		UnreadPreferred: true,
	}
}

type smsListRequest struct {
	XMLName         xml.Name `xml:"request"`
	PageIndex       int      `xml:"PageIndex"`
	ReadCount       int      `xml:"ReadCount"`
	BoxType         int      `xml:"BoxType"`
	SortType        int      `xml:"SortType"`
	Ascending       int      `xml:"Ascending"`
	UnreadPreferred int      `xml:"UnreadPreferred"`
}

func (p *SMSListParams) request() smsListRequest {
	if p == nil {
		p = DefaultSMSListParams()
	}
	req := smsListRequest{
		PageIndex:       p.Page,
		ReadCount:       p.Count,
		BoxType:         int(p.Box),
		SortType:        int(p.Sort),
		Ascending:       boolFlag(p.Ascending),
		UnreadPreferred: boolFlag(p.UnreadPreferred),
	}
	if req.PageIndex < 1 {
		req.PageIndex = 1
	}
	if req.ReadCount < 1 {
		req.ReadCount = 20
	}
	if req.BoxType == 0 {
		req.BoxType = int(SMSBoxLocalInbox)
	}
	return req
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SMSMessage is one stored message
type SMSMessage struct {
	Status   string `xml:"Smstat" json:"status" yaml:"status"`
	Index    string `xml:"Index" json:"index" yaml:"index"`
	Phone    string `xml:"Phone" json:"phone" yaml:"phone"`
	Content  string `xml:"Content" json:"content" yaml:"content"`
	Date     string `xml:"Date" json:"date" yaml:"date"`
	Sca      string `xml:"Sca" json:"sca,omitempty" yaml:"sca,omitempty"`
	SaveType string `xml:"SaveType" json:"saveType" yaml:"save_type"`
	Priority string `xml:"Priority" json:"priority" yaml:"priority"`
	SMSType  string `xml:"SmsType" json:"smsType" yaml:"sms_type"`
}

func (m *SMSMessage) IsUnread() bool {
	return strings.TrimSpace(m.Status) == SMSStatusUnread
}

// SMSList is one page of messages
type SMSList struct {
	XMLName  xml.Name      `xml:"response" json:"-" yaml:"-"`
	Count    string        `xml:"Count" json:"count" yaml:"count"`
	Messages []*SMSMessage `xml:"Messages>Message" json:"messages" yaml:"messages"`
}

// Total returns the device-reported count, falling back to the page length.
func (l *SMSList) Total() int {
	if n, err := strconv.Atoi(strings.TrimSpace(l.Count)); err == nil {
		return n
	}
	return len(l.Messages)
}

type smsIndexRequest struct {
	XMLName xml.Name `xml:"request"`
	Index   string   `xml:"Index"`
}

// NetworkModeCode selects the allowed radio technologies
type NetworkModeCode string

const (
	NetworkModeAuto          NetworkModeCode = "00"
	NetworkMode2GOnly        NetworkModeCode = "01"
	NetworkMode3GOnly        NetworkModeCode = "02"
	NetworkMode4GOnly        NetworkModeCode = "03"
	NetworkMode3GPreferred2G NetworkModeCode = "0201"
	NetworkMode4GPreferred2G NetworkModeCode = "0301"
	NetworkMode4GPreferred3G NetworkModeCode = "0302"
)

// Band masks sent when NetworkModeParams leaves them empty.
const (
	DefaultNetworkBand = "3fffffff"
	DefaultLTEBand     = "80800C5"
)

var networkModeText = map[NetworkModeCode]string{
	NetworkModeAuto:          "Auto (2G/3G/4G)",
	NetworkMode2GOnly:        "2G Only (GSM/EDGE)",
	NetworkMode3GOnly:        "3G Only (UMTS/HSPA)",
	NetworkMode4GOnly:        "4G Only (LTE)",
	NetworkMode3GPreferred2G: "3G Preferred, 2G Fallback",
	NetworkMode4GPreferred2G: "4G Preferred, 2G Fallback",
	NetworkMode4GPreferred3G: "4G Preferred, 3G Fallback",
}

func (m NetworkModeCode) String() string {
	if text, ok := networkModeText[m]; ok {
		return text
	}
	return "Unknown (" + string(m) + ")"
}

// Valid reports whether m is a known mode code
func (m NetworkModeCode) Valid() bool {
	_, ok := networkModeText[m]
	return ok
}

// ParseNetworkMode accepts a mode code ("03") or a short name ("4g", "auto").
func ParseNetworkMode(s string) (NetworkModeCode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return NetworkModeAuto, nil
	case "2g":
		return NetworkMode2GOnly, nil
	case "3g":
		return NetworkMode3GOnly, nil
	case "4g", "lte":
		return NetworkMode4GOnly, nil
	case "4g-preferred", "lte-preferred":
		return NetworkMode4GPreferred3G, nil
	}
	code := NetworkModeCode(strings.TrimSpace(s))
	if !code.Valid() {
		return "", internalTypes.NewConfigError("unknown network mode %q", s)
	}
	return code, nil
}

// NetworkMode is the configured mode and band masks
type NetworkMode struct {
	XMLName     xml.Name        `xml:"response" json:"-" yaml:"-"`
	NetworkMode NetworkModeCode `xml:"NetworkMode" json:"networkMode" yaml:"network_mode"`
	NetworkBand string          `xml:"NetworkBand" json:"networkBand" yaml:"network_band"`
	LTEBand     string          `xml:"LTEBand" json:"lteBand" yaml:"lte_band"`
}

func (m *NetworkMode) IsAuto() bool     { return m.NetworkMode == NetworkModeAuto }
func (m *NetworkMode) Is4GOnly() bool   { return m.NetworkMode == NetworkMode4GOnly }
func (m *NetworkMode) ModeText() string { return m.NetworkMode.String() }

// NetworkModeParams changes the network mode. Empty bands take the defaults.
type NetworkModeParams struct {
	Mode        NetworkModeCode
	NetworkBand string
	LTEBand     string
}

type networkModeRequest struct {
	XMLName     xml.Name `xml:"request"`
	NetworkMode string   `xml:"NetworkMode"`
	NetworkBand string   `xml:"NetworkBand"`
	LTEBand     string   `xml:"LTEBand"`
}

// PLMN is the registered operator
type PLMN struct {
	XMLName   xml.Name `xml:"response" json:"-" yaml:"-"`
	State     string   `xml:"State" json:"state" yaml:"state"`
	FullName  string   `xml:"FullName" json:"fullName" yaml:"full_name"`
	ShortName string   `xml:"ShortName" json:"shortName" yaml:"short_name"`
	Numeric   string   `xml:"Numeric" json:"numeric" yaml:"numeric"`
	Rat       string   `xml:"Rat" json:"rat" yaml:"rat"`
}

// OperatorName prefers the full name
func (p *PLMN) OperatorName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.ShortName
}

// DHCPSettings is the LAN DHCP configuration
type DHCPSettings struct {
	XMLName      xml.Name `xml:"response" json:"-" yaml:"-"`
	DNSStatus    string   `xml:"DnsStatus" json:"dnsStatus" yaml:"dns_status"`
	StartIP      string   `xml:"DhcpStartIPAddress" json:"startIp" yaml:"start_ip"`
	GatewayIP    string   `xml:"DhcpIPAddress" json:"gatewayIp" yaml:"gateway_ip"`
	DHCPStatus   string   `xml:"DhcpStatus" json:"dhcpStatus" yaml:"dhcp_status"`
	Netmask      string   `xml:"DhcpLanNetmask" json:"netmask" yaml:"netmask"`
	SecondaryDNS string   `xml:"SecondaryDns" json:"secondaryDns" yaml:"secondary_dns"`
	PrimaryDNS   string   `xml:"PrimaryDns" json:"primaryDns" yaml:"primary_dns"`
	EndIP        string   `xml:"DhcpEndIPAddress" json:"endIp" yaml:"end_ip"`
	LeaseTime    string   `xml:"DhcpLeaseTime" json:"leaseTime" yaml:"lease_time"`
}

func (s *DHCPSettings) IsEnabled() bool {
	return strings.TrimSpace(s.DHCPStatus) == "1"
}

// WithGateway returns a copy moved to the 192.168.x.0/24 subnet of gateway.
// The pool becomes .100-.200 and both DNS servers point at the gateway.
func (s *DHCPSettings) WithGateway(gateway string) (*DHCPSettings, error) {
	ip := net.ParseIP(strings.TrimSpace(gateway)).To4()
	if ip == nil || ip[0] != 192 || ip[1] != 168 || ip[3] != 1 {
		return nil, internalTypes.NewConfigError("gateway IP must be in format 192.168.x.1, got %q", gateway)
	}
	if ip[2] == 0 {
		return nil, internalTypes.NewConfigError("subnet number must be between 1 and 255")
	}

	out := *s
	out.GatewayIP = ip.String()
	out.StartIP = fmt.Sprintf("192.168.%d.100", ip[2])
	out.EndIP = fmt.Sprintf("192.168.%d.200", ip[2])
	out.PrimaryDNS = ip.String()
	out.SecondaryDNS = ip.String()
	return &out, nil
}

type dhcpSettingsRequest struct {
	XMLName      xml.Name `xml:"request"`
	GatewayIP    string   `xml:"DhcpIPAddress"`
	Netmask      string   `xml:"DhcpLanNetmask"`
	DHCPStatus   string   `xml:"DhcpStatus"`
	StartIP      string   `xml:"DhcpStartIPAddress"`
	EndIP        string   `xml:"DhcpEndIPAddress"`
	LeaseTime    string   `xml:"DhcpLeaseTime"`
	DNSStatus    string   `xml:"DnsStatus"`
	PrimaryDNS   string   `xml:"PrimaryDns"`
	SecondaryDNS string   `xml:"SecondaryDns"`
}

type controlRequest struct {
	XMLName xml.Name `xml:"request"`
	Control int      `xml:"Control"`
}
