package messaging

import (
	"log"

	"fleetcore/dispatch"
	"fleetcore/store"
)

// Intake bridges decoded RFQ requests into the orchestrator.
type Intake struct {
	orchestrator *dispatch.Orchestrator
}

func NewIntake(o *dispatch.Orchestrator) *Intake {
	return &Intake{orchestrator: o}
}

func (h *Intake) HandleRFQ(req *RFQRequest) {
	rfq := &store.RFQ{
		RFQRef:         req.RFQRef,
		Client:         req.Client,
		Commodity:      req.Commodity,
		RequiresHazmat: req.RequiresHazmat,
		Tons:           req.Tons,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Corridor:       req.Corridor,
	}
	if err := h.orchestrator.IntakeRFQ(rfq); err != nil {
		log.Printf("messaging: rfq intake %s: %v", req.RFQRef, err)
	}
}
