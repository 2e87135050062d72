package linkage

import (
	"strings"
	"testing"
)

func testAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultForceParameters(), DefaultSamples, GraphSamples)
}

func TestPingAnsweredBeforeAnyComputation(t *testing.T) {
	// No points at all: a ping must still succeed.
	resp := testAnalyzer().Process(&AnalysisRequest{Ping: true})

	pong, ok := resp.(PingResponse)
	if !ok {
		t.Fatalf("got %T, want PingResponse", resp)
	}
	if !pong.Pong {
		t.Error("pong flag not set")
	}
}

func TestPongAcknowledged(t *testing.T) {
	resp := testAnalyzer().Process(&AnalysisRequest{Pong: true})

	ack, ok := resp.(PongResponse)
	if !ok {
		t.Fatalf("got %T, want PongResponse", resp)
	}
	if !ack.Received {
		t.Error("received flag not set")
	}
}

func TestSimulationSolveUpdatesPoints(t *testing.T) {
	req := &AnalysisRequest{
		Points:            testLinkage(),
		CylinderExtension: 1.0,
		SimulationMode:    true,
	}

	resp := testAnalyzer().Process(req)
	ar, ok := resp.(AnalysisResponse)
	if !ok {
		t.Fatalf("got %T, want AnalysisResponse", resp)
	}

	before, _ := req.Points.Get(PointPivotArm)
	after, _ := ar.UpdatedPoints.Get(PointPivotArm)
	if before == after {
		t.Error("pivotArm did not move for a 1in extension")
	}

	if ar.ForceAnalysis == nil {
		t.Fatal("force analysis missing")
	}
	if ar.ForceAnalysis.SurfaceData == nil {
		t.Fatal("surface data missing")
	}
	if len(ar.ForceAnalysis.SurfaceData.X) != DefaultSamples {
		t.Errorf("surface has %d samples, want %d", len(ar.ForceAnalysis.SurfaceData.X), DefaultSamples)
	}
}

func TestWithoutSimulationModeGeometryIsTakenAsGiven(t *testing.T) {
	req := &AnalysisRequest{
		Points:            testLinkage(),
		CylinderExtension: 5.0,
	}

	resp := testAnalyzer().Process(req)
	ar, ok := resp.(AnalysisResponse)
	if !ok {
		t.Fatalf("got %T, want AnalysisResponse", resp)
	}

	before, _ := req.Points.Get(PointPivotArm)
	after, _ := ar.UpdatedPoints.Get(PointPivotArm)
	if before != after {
		t.Errorf("geometry re-solved without simulationMode: %v -> %v", before, after)
	}
}

func TestGenerateGraphSelectsHighResolution(t *testing.T) {
	req := &AnalysisRequest{
		Points:        testLinkage(),
		GenerateGraph: true,
	}

	resp := testAnalyzer().Process(req)
	ar, ok := resp.(AnalysisResponse)
	if !ok {
		t.Fatalf("got %T, want AnalysisResponse", resp)
	}
	if len(ar.ForceAnalysis.SurfaceData.X) != GraphSamples {
		t.Errorf("surface has %d samples, want %d", len(ar.ForceAnalysis.SurfaceData.X), GraphSamples)
	}
}

func TestMissingPointsYieldErrorEnvelope(t *testing.T) {
	resp := testAnalyzer().Process(&AnalysisRequest{SimulationMode: true})

	errResp, ok := resp.(ErrorResponse)
	if !ok {
		t.Fatalf("got %T, want ErrorResponse", resp)
	}
	if !errResp.Error {
		t.Error("error flag not set")
	}
	if !strings.Contains(errResp.Message, PointPivotBase) {
		t.Errorf("message %q does not name the missing point", errResp.Message)
	}
}

func TestForceErrorWithoutSimulationMode(t *testing.T) {
	ps := testLinkage()
	delete(ps.Points, PointCylinderBase)

	resp := testAnalyzer().Process(&AnalysisRequest{Points: ps})

	errResp, ok := resp.(ErrorResponse)
	if !ok {
		t.Fatalf("got %T, want ErrorResponse", resp)
	}
	if !strings.Contains(errResp.Message, "Force calculation error") {
		t.Errorf("unexpected message: %q", errResp.Message)
	}
}

func TestConsecutiveRequestsAreIndependent(t *testing.T) {
	analyzer := testAnalyzer()

	// A failing request must not poison the next one.
	if _, ok := analyzer.Process(&AnalysisRequest{SimulationMode: true}).(ErrorResponse); !ok {
		t.Fatal("expected error envelope for empty snapshot")
	}

	resp := analyzer.Process(&AnalysisRequest{Points: testLinkage(), SimulationMode: true})
	if _, ok := resp.(AnalysisResponse); !ok {
		t.Fatalf("follow-up request failed: %T", resp)
	}
}

func TestNewAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(ForceParameters{}, 0, 0)

	if a.Params != DefaultForceParameters() {
		t.Errorf("params %+v, want defaults", a.Params)
	}
	if a.Samples != DefaultSamples || a.GraphSamples != GraphSamples {
		t.Errorf("samples %d/%d, want %d/%d", a.Samples, a.GraphSamples, DefaultSamples, GraphSamples)
	}
}

func TestNewAnalyzerDefaultsFieldsIndependently(t *testing.T) {
	// A configured pressure with an unset bore must not collapse the
	// piston area to zero.
	a := NewAnalyzer(ForceParameters{Pressure: 120}, 0, 0)
	if a.Params.Bore != DefaultForceParameters().Bore {
		t.Errorf("bore %.2f, want default %.2f", a.Params.Bore, DefaultForceParameters().Bore)
	}
	if a.Params.Pressure != 120 {
		t.Errorf("pressure %.2f, want 120 as configured", a.Params.Pressure)
	}

	b := NewAnalyzer(ForceParameters{Bore: 3}, 0, 0)
	if b.Params.Pressure != DefaultForceParameters().Pressure {
		t.Errorf("pressure %.2f, want default %.2f", b.Params.Pressure, DefaultForceParameters().Pressure)
	}
	if b.Params.Bore != 3 {
		t.Errorf("bore %.2f, want 3 as configured", b.Params.Bore)
	}
}
