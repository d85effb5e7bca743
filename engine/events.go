package engine

// Bus payloads. Each implements Event by reporting its Kind.

type RFQReceivedEvent struct {
	RFQID  int64
	RFQRef string
	Client string
	Tons   float64
}

func (RFQReceivedEvent) Kind() Kind { return KindRFQReceived }

type TripCreatedEvent struct {
	TripID    int64
	TripRef   string
	MissionID int64
	RegNumber string
	Driver    string
}

func (TripCreatedEvent) Kind() Kind { return KindTripCreated }

type TripStageAdvancedEvent struct {
	TripID        int64
	TripRef       string
	Status        string
	MissionStatus string
	RegNumber     string
}

func (TripStageAdvancedEvent) Kind() Kind { return KindTripStageAdvanced }

type TripDispatchedEvent struct {
	TripID    int64
	TripRef   string
	RegNumber string
	NetWeight float64
	TicketNo  string
}

func (TripDispatchedEvent) Kind() Kind { return KindTripDispatched }

type MissionStatusChangedEvent struct {
	MissionID int64
	RegNumber string
	Driver    string
	Status    string
	Location  string
}

func (MissionStatusChangedEvent) Kind() Kind { return KindMissionStatusChanged }

type MissionClosedEvent struct {
	MissionID int64
	RegNumber string
	PODRef    string
}

func (MissionClosedEvent) Kind() Kind { return KindMissionClosed }

type VehiclePositionEvent struct {
	RegNumber string
	Latitude  float64
	Longitude float64
	Speed     float64
	Ignition  bool
}

func (VehiclePositionEvent) Kind() Kind { return KindVehiclePosition }

type IncidentLoggedEvent struct {
	IncidentID int64
	RegNumber  string
	Driver     string
	Category   string
}

func (IncidentLoggedEvent) Kind() Kind { return KindIncidentLogged }

// ConnectionEvent reports an external link (kafka, telematics) changing
// state. Source is "messaging" or "telematics".
type ConnectionEvent struct {
	Source    string
	Connected bool
}

func (ConnectionEvent) Kind() Kind { return KindConnection }
