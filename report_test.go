package shadepbr

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestIssueLog(t *testing.T) {
	var log IssueLog
	log.Message("m", rankMaterial)
	log.Warning("w", rankStep)
	log.Error("e", rankTexture)
	log.Warning("w2", rankStep)

	if log.Count(IssueWarning) != 2 || log.Count(IssueError) != 1 || log.Count(IssueMessage) != 1 {
		t.Fatalf("counts: got %+v", log.Issues())
	}
	if got := log.Filter(IssueWarning); len(got) != 2 || got[1].Message != "w2" || got[1].Rank != rankStep {
		t.Fatalf("filter: got %+v", got)
	}
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewLogReporter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	rep.Message("hidden", rankMaterial)
	rep.Warning("texture linked twice", rankTexture)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record not filtered:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "rank=3") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMultiReporter(t *testing.T) {
	var a, b IssueLog
	rep := MultiReporter(&a, nil, &b)
	rep.Error("boom", rankStep)

	if a.Count(IssueError) != 1 || b.Count(IssueError) != 1 {
		t.Fatalf("fan out failed: %+v / %+v", a.Issues(), b.Issues())
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	g := loadTestGraph(t, "surface.graph")
	exp := NewExporter(g, nil, nil, nil)
	_ = exp.ExportMaterial(mustRef(t, g, "ramp1"))

	if !strings.Contains(buf.String(), "unsupported material type") {
		t.Fatalf("default reporter did not log:\n%s", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Fatalf("nil logger must silence output")
	}
}
