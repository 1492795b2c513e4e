package domain

import "github.com/bft-labs/telebus/pkg/propbag"

// String capacities, in bytes.
const (
	capPath     = 128
	capName     = 64
	capShort    = 16
	capCode     = 3
	capNumber   = 32
	capAddress  = 46
	capAPN      = 100
	capText     = 4096
	capUSSD     = 512
	capFeatures = 16
)

// ActivityLevels is the number of transmit power levels reported in
// ModemActivityInfo.TxTime.
const ActivityLevels = 5

// ModemInfo describes one modem object.
type ModemInfo struct {
	Powered               bool
	Online                bool
	Lockdown              bool
	Emergency             bool
	Name                  string
	Manufacturer          string
	Model                 string
	Revision              string
	Serial                string
	SoftwareVersionNumber string
	Type                  string
	Features              []string
	Interfaces            []string
}

var ModemInfoTable = propbag.NewTable("ModemInfo",
	propbag.BoolField[ModemInfo]("Powered", "Powered"),
	propbag.BoolField[ModemInfo]("Online", "Online"),
	propbag.BoolField[ModemInfo]("Lockdown", "Lockdown"),
	propbag.BoolField[ModemInfo]("Emergency", "Emergency"),
	propbag.Str[ModemInfo]("Name", "Name", capName),
	propbag.Str[ModemInfo]("Manufacturer", "Manufacturer", capName),
	propbag.Str[ModemInfo]("Model", "Model", capName),
	propbag.Str[ModemInfo]("Revision", "Revision", capName),
	propbag.Str[ModemInfo]("Serial", "Serial", capNumber),
	propbag.Str[ModemInfo]("SoftwareVersionNumber", "SoftwareVersionNumber", capShort),
	propbag.Str[ModemInfo]("Type", "Type", capShort),
	propbag.StrList[ModemInfo]("Features", "Features", capFeatures, capShort),
	propbag.StrList[ModemInfo]("Interfaces", "Interfaces", capFeatures*2, capName),
)

// SimInfo describes the SIM card in one slot.
type SimInfo struct {
	Present             bool
	SubscriberIdentity  string
	CardIdentifier      string
	MobileCountryCode   string
	MobileNetworkCode   string
	ServiceProviderName string
	SubscriberNumbers   []string
	PinRequired         string
	LockedPins          []string
	PreferredLanguages  []string
	FixedDialing        bool
	BarredDialing       bool
}

var SimInfoTable = propbag.NewTable("SimInfo",
	propbag.BoolField[SimInfo]("Present", "Present"),
	propbag.Str[SimInfo]("SubscriberIdentity", "SubscriberIdentity", 15),
	propbag.Str[SimInfo]("CardIdentifier", "CardIdentifier", 20),
	propbag.Str[SimInfo]("MobileCountryCode", "MobileCountryCode", capCode),
	propbag.Str[SimInfo]("MobileNetworkCode", "MobileNetworkCode", capCode),
	propbag.Str[SimInfo]("ServiceProviderName", "ServiceProviderName", capName),
	propbag.StrList[SimInfo]("SubscriberNumbers", "SubscriberNumbers", 4, capNumber),
	propbag.Str[SimInfo]("PinRequired", "PinRequired", capShort),
	propbag.StrList[SimInfo]("LockedPins", "LockedPins", 8, capShort),
	propbag.StrList[SimInfo]("PreferredLanguages", "PreferredLanguages", 4, 8),
	propbag.BoolField[SimInfo]("FixedDialing", "FixedDialing"),
	propbag.BoolField[SimInfo]("BarredDialing", "BarredDialing"),
)

// RegistrationInfo describes network registration state.
type RegistrationInfo struct {
	Mode              string
	Status            string
	LocationAreaCode  uint16
	CellID            uint32
	MobileCountryCode string
	MobileNetworkCode string
	Technology        string
	Name              string
	Strength          uint8
	BaseStation       string
}

var RegistrationInfoTable = propbag.NewTable("RegistrationInfo",
	propbag.Str[RegistrationInfo]("Mode", "Mode", capShort),
	propbag.Str[RegistrationInfo]("Status", "Status", capShort),
	propbag.IntField[RegistrationInfo]("LocationAreaCode", "LocationAreaCode"),
	propbag.IntField[RegistrationInfo]("CellId", "CellID"),
	propbag.Str[RegistrationInfo]("MobileCountryCode", "MobileCountryCode", capCode),
	propbag.Str[RegistrationInfo]("MobileNetworkCode", "MobileNetworkCode", capCode),
	propbag.Str[RegistrationInfo]("Technology", "Technology", capShort),
	propbag.Str[RegistrationInfo]("Name", "Name", capName),
	propbag.IntField[RegistrationInfo]("Strength", "Strength"),
	propbag.Str[RegistrationInfo]("BaseStation", "BaseStation", capName),
)

// OperatorInfo describes one network operator from a listing or scan.
type OperatorInfo struct {
	Path                  string
	Name                  string
	Status                string
	MobileCountryCode     string
	MobileNetworkCode     string
	Technologies          []string
	AdditionalInformation string
}

var OperatorInfoTable = propbag.NewTable("OperatorInfo",
	propbag.ObjectID[OperatorInfo]("Path", capPath),
	propbag.Str[OperatorInfo]("Name", "Name", capName),
	propbag.Str[OperatorInfo]("Status", "Status", capShort),
	propbag.Str[OperatorInfo]("MobileCountryCode", "MobileCountryCode", capCode),
	propbag.Str[OperatorInfo]("MobileNetworkCode", "MobileNetworkCode", capCode),
	propbag.StrList[OperatorInfo]("Technologies", "Technologies", 4, 8),
	propbag.Str[OperatorInfo]("AdditionalInformation", "AdditionalInformation", capPath),
)

// IpSettings is the network configuration of an active data context.
type IpSettings struct {
	Interface         string
	Method            string
	Address           string
	Netmask           string
	Gateway           string
	DomainNameServers []string
	Proxy             string
	PrefixLength      uint8
}

var IpSettingsTable = propbag.NewTable("IpSettings",
	propbag.Str[IpSettings]("Interface", "Interface", capShort),
	propbag.Str[IpSettings]("Method", "Method", 8),
	propbag.Str[IpSettings]("Address", "Address", capAddress),
	propbag.Str[IpSettings]("Netmask", "Netmask", capAddress),
	propbag.Str[IpSettings]("Gateway", "Gateway", capAddress),
	propbag.StrList[IpSettings]("DomainNameServers", "DomainNameServers", 4, capAddress),
	propbag.Str[IpSettings]("Proxy", "Proxy", capPath),
	propbag.IntField[IpSettings]("PrefixLength", "PrefixLength"),
)

// ApnContext is one packet data context.
type ApnContext struct {
	Path                 string
	Active               bool
	AccessPointName      string
	Type                 string
	Username             string
	Password             string
	Protocol             string
	Name                 string
	AuthenticationMethod string
	MessageProxy         string
	MessageCenter        string
	Settings             IpSettings
	IPv6Settings         IpSettings
}

var ApnContextTable = propbag.NewTable("ApnContext",
	propbag.ObjectID[ApnContext]("Path", capPath),
	propbag.BoolField[ApnContext]("Active", "Active"),
	propbag.Str[ApnContext]("AccessPointName", "AccessPointName", capAPN),
	propbag.Str[ApnContext]("Type", "Type", capShort),
	propbag.Str[ApnContext]("Username", "Username", capName),
	propbag.Str[ApnContext]("Password", "Password", capName),
	propbag.Str[ApnContext]("Protocol", "Protocol", 8),
	propbag.Str[ApnContext]("Name", "Name", capName),
	propbag.Str[ApnContext]("AuthenticationMethod", "AuthenticationMethod", 8),
	propbag.Str[ApnContext]("MessageProxy", "MessageProxy", capPath),
	propbag.Str[ApnContext]("MessageCenter", "MessageCenter", capPath*2),
	propbag.NestedField[ApnContext, IpSettings]("Settings", "Settings", IpSettingsTable),
	propbag.NestedField[ApnContext, IpSettings]("IPv6.Settings", "IPv6Settings", IpSettingsTable),
)

// CallForwardInfo holds the voice call forwarding rules.
type CallForwardInfo struct {
	VoiceUnconditional  string
	VoiceBusy           string
	VoiceNoReply        string
	VoiceNoReplyTimeout uint16
	VoiceNotReachable   string
	ForwardingFlagOnSim bool
}

var CallForwardInfoTable = propbag.NewTable("CallForwardInfo",
	propbag.Str[CallForwardInfo]("VoiceUnconditional", "VoiceUnconditional", capNumber),
	propbag.Str[CallForwardInfo]("VoiceBusy", "VoiceBusy", capNumber),
	propbag.Str[CallForwardInfo]("VoiceNoReply", "VoiceNoReply", capNumber),
	propbag.IntField[CallForwardInfo]("VoiceNoReplyTimeout", "VoiceNoReplyTimeout"),
	propbag.Str[CallForwardInfo]("VoiceNotReachable", "VoiceNotReachable", capNumber),
	propbag.BoolField[CallForwardInfo]("ForwardingFlagOnSim", "ForwardingFlagOnSim"),
)

// CallBarringInfo holds the voice call barring settings.
type CallBarringInfo struct {
	VoiceIncoming string
	VoiceOutgoing string
}

var CallBarringInfoTable = propbag.NewTable("CallBarringInfo",
	propbag.Str[CallBarringInfo]("VoiceIncoming", "VoiceIncoming", capShort),
	propbag.Str[CallBarringInfo]("VoiceOutgoing", "VoiceOutgoing", capShort),
)

// SsInitiateInfo is the outcome of a supplementary service request. USSD
// replies fill Message; service control strings fill Operation and Service.
type SsInitiateInfo struct {
	Type      string
	Message   string
	Operation string
	Service   string
}

var SsInitiateInfoTable = propbag.NewTable("SsInitiateInfo",
	propbag.Str[SsInitiateInfo]("Type", "Type", capShort),
	propbag.Str[SsInitiateInfo]("Message", "Message", capUSSD),
	propbag.Str[SsInitiateInfo]("Operation", "Operation", capShort),
	propbag.Str[SsInitiateInfo]("Service", "Service", capShort),
)

// MessageInfo describes a short message, either pending in the outgoing
// queue or just received.
type MessageInfo struct {
	Path          string
	State         string
	Text          string
	Sender        string
	SentTime      string
	LocalSentTime string
}

var MessageInfoTable = propbag.NewTable("MessageInfo",
	propbag.ObjectID[MessageInfo]("Path", capPath),
	propbag.Str[MessageInfo]("State", "State", capShort),
	propbag.Str[MessageInfo]("Text", "Text", capText),
	propbag.Str[MessageInfo]("Sender", "Sender", capNumber),
	propbag.Str[MessageInfo]("SentTime", "SentTime", capNumber),
	propbag.Str[MessageInfo]("LocalSentTime", "LocalSentTime", capNumber),
)

// ModemActivityInfo reports radio time spent per state, in milliseconds.
type ModemActivityInfo struct {
	SleepTime uint32
	IdleTime  uint32
	TxTime    [ActivityLevels]uint32
	RxTime    uint32
}

var ModemActivityInfoTable = propbag.NewTable("ModemActivityInfo",
	propbag.IntField[ModemActivityInfo]("SleepTime", "SleepTime"),
	propbag.IntField[ModemActivityInfo]("IdleTime", "IdleTime"),
	propbag.FixedInts[ModemActivityInfo]("TxTime", "TxTime", ActivityLevels),
	propbag.IntField[ModemActivityInfo]("RxTime", "RxTime"),
)

// PropertyChange is one PropertyChanged signal.
type PropertyChange struct {
	Name  string
	Value propbag.Variant
}
