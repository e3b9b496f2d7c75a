package log

import "testing"

func TestTestLoggerCapture(t *testing.T) {
	logger := NewTestLogger()

	logger.Info("training started", "epochs", 100)
	logger.Warn("slow convergence")

	records := logger.Records()
	if len(records) != 2 {
		t.Fatalf("captured %d records, want 2", len(records))
	}
	if records[0].Level != LevelInfo || records[0].Msg != "training started" {
		t.Errorf("first record: %+v", records[0])
	}
	if got := records[0].Fields["epochs"]; got != 100 {
		t.Errorf("epochs field: got %v, want 100", got)
	}
	if !logger.HasMessage("slow convergence") {
		t.Error("HasMessage missed a captured record")
	}
}

func TestTestLoggerWithSharesBuffer(t *testing.T) {
	logger := NewTestLogger()
	derived := logger.With("component", "optimize")

	derived.Info("epoch complete")

	records := logger.Records()
	if len(records) != 1 {
		t.Fatalf("captured %d records, want 1", len(records))
	}
	if got := records[0].Fields["component"]; got != "optimize" {
		t.Errorf("component field: got %v, want optimize", got)
	}
}

func TestTestLoggerErrorField(t *testing.T) {
	logger := NewTestLogger()

	logger.Error("fit failed", errTest)

	records := logger.Records()
	if len(records) != 1 {
		t.Fatalf("captured %d records, want 1", len(records))
	}
	if got := records[0].Fields["error"]; got != "boom" {
		t.Errorf("error field: got %v, want boom", got)
	}
}

func TestTestLoggerReset(t *testing.T) {
	logger := NewTestLogger()
	logger.Info("one")
	logger.Reset()

	if len(logger.Records()) != 0 {
		t.Error("Reset should clear captured records")
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%d: got %q, want %q", level, got, want)
		}
	}
}

type testErr struct{}

func (testErr) Error() string { return "boom" }

var errTest error = testErr{}
