package linkage

import (
	"fmt"
	"log"
)

// AnalysisRequest is the wire shape consumed from both the websocket channel
// and the REST endpoint. Ping/pong are liveness probes handled before any
// computation.
type AnalysisRequest struct {
	Points            PointSet `json:"points"`
	CylinderExtension float64  `json:"cylinderExtension"`
	SimulationMode    bool     `json:"simulationMode"`
	GenerateGraph     bool     `json:"generateGraph"`
	Ping              bool     `json:"ping"`
	Pong              bool     `json:"pong"`
}

// AnalysisResponse is the success envelope.
type AnalysisResponse struct {
	UpdatedPoints PointSet     `json:"updatedPoints"`
	ForceAnalysis *ForceResult `json:"forceAnalysis"`
}

// ErrorResponse is the failure envelope. Every failed request gets exactly
// one of these; the process never dies on a bad request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// PingResponse answers a ping probe.
type PingResponse struct {
	Pong bool `json:"pong"`
}

// PongResponse acknowledges a pong probe.
type PongResponse struct {
	Received bool `json:"received"`
}

// Analyzer processes analysis requests. It holds the cylinder configuration
// and sample resolutions; it carries no per-request state, so one Analyzer
// serves all connections concurrently.
type Analyzer struct {
	Params       ForceParameters
	Samples      int
	GraphSamples int
}

// NewAnalyzer builds an Analyzer, falling back to defaults for zero values.
// Pressure and bore default independently: a half-configured cylinder must
// not zero out every force.
func NewAnalyzer(params ForceParameters, samples, graphSamples int) *Analyzer {
	defaults := DefaultForceParameters()
	if params.Pressure <= 0 {
		params.Pressure = defaults.Pressure
	}
	if params.Bore <= 0 {
		params.Bore = defaults.Bore
	}
	if samples <= 0 {
		samples = DefaultSamples
	}
	if graphSamples <= 0 {
		graphSamples = GraphSamples
	}
	return &Analyzer{Params: params, Samples: samples, GraphSamples: graphSamples}
}

// Process runs one request top to bottom: liveness probes first, then an
// optional geometry re-solve under simulationMode, then the force analysis
// with its sampled surface. The return value is always one of PingResponse,
// PongResponse, AnalysisResponse, or ErrorResponse.
func (a *Analyzer) Process(req *AnalysisRequest) (resp interface{}) {
	if req.Ping {
		return PingResponse{Pong: true}
	}
	if req.Pong {
		return PongResponse{Received: true}
	}

	// Anything unexpected that escapes the models becomes a structured
	// error; the next request starts clean.
	defer func() {
		if r := recover(); r != nil {
			calcErr := &CalculationError{Stage: "analysis", Err: fmt.Errorf("%v", r)}
			log.Printf("[CORE] recovered: %v", calcErr)
			resp = ErrorResponse{Error: true, Message: calcErr.Error()}
		}
	}()

	points := req.Points
	if points.Points == nil {
		points = NewPointSet()
	}

	if req.SimulationMode {
		updated, err := SolveGeometry(points, req.CylinderExtension)
		if err != nil {
			log.Printf("[CORE] geometry solve failed: %v", err)
			return ErrorResponse{Error: true, Message: fmt.Sprintf("Geometry calculation error: %v", err)}
		}
		points = updated
	}

	samples := a.Samples
	if req.GenerateGraph {
		samples = a.GraphSamples
	}

	analysis, err := AnalyzeForces(points, req.CylinderExtension, samples, a.Params)
	if err != nil {
		log.Printf("[CORE] force analysis failed: %v", err)
		return ErrorResponse{Error: true, Message: fmt.Sprintf("Force calculation error: %v", err)}
	}

	log.Printf("[CORE] analysis: cylinder=%.2f lbs output=%.2f lbs advantage=%.4f",
		analysis.CylinderForce, analysis.OutputForce, analysis.MechanicalAdvantage)

	return AnalysisResponse{UpdatedPoints: points, ForceAnalysis: analysis}
}
