package jhobby

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var P = querycurve.P

func mustFindControls(t *testing.T, knots []pair) ([]pair, []pair) {
	t.Helper()
	pre, post, err := FindControls(knots)
	if err != nil {
		t.Fatalf("FindControls failed: %v", err)
	}
	return pre, post
}

func TestStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pre, post := mustFindControls(t, []pair{P(0, 0), P(3, 3)})
	if !post[0].Equal(P(1, 1)) || !pre[1].Equal(P(2, 2)) {
		t.Errorf("expected controls at thirds of the line, got %v and %v", post[0], pre[1])
	}
}

func TestCollinearKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pre, post := mustFindControls(t, []pair{P(0, 0), P(3, 3), P(6, 6)})
	want := []pair{P(1, 1), P(2, 2), P(4, 4), P(5, 5)}
	got := []pair{post[0], pre[1], post[1], pre[2]}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("control %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSymmetricArch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pre, post := mustFindControls(t, []pair{P(0, 0), P(1, 1), P(2, 0)})
	if math.Abs(pre[1].Y()-1) > 1e-9 || math.Abs(post[1].Y()-1) > 1e-9 {
		t.Errorf("expected horizontal tangent at apex, got pre=%v post=%v", pre[1], post[1])
	}
	if !(pre[1].X() < 1 && post[1].X() > 1) {
		t.Errorf("expected apex controls on both sides, got pre=%v post=%v", pre[1], post[1])
	}
	if math.Abs((1-pre[1].X())-(post[1].X()-1)) > 1e-9 {
		t.Errorf("expected symmetric controls, got pre=%v post=%v", pre[1], post[1])
	}
	if math.Abs(post[0].X()+pre[2].X()-2) > 1e-9 || math.Abs(post[0].Y()-pre[2].Y()) > 1e-9 {
		t.Errorf("expected mirrored end controls, got %v and %v", post[0], pre[2])
	}
	t.Logf("%s", asString(open{z: []pair{P(0, 0), P(1, 1), P(2, 0)}}, pre, post))
}

func TestInvalidPaths(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if _, _, err := FindControls([]pair{P(0, 0)}); !errors.Is(err, ErrTooFewKnots) {
		t.Errorf("expected ErrTooFewKnots, got %v", err)
	}
	if _, _, err := FindControls([]pair{P(0, 0), P(0, 0)}); !errors.Is(err, ErrDegenerateSegment) {
		t.Errorf("expected ErrDegenerateSegment, got %v", err)
	}
	if _, _, err := FindControls([]pair{P(0, 0), P(math.NaN(), 1)}); !errors.Is(err, ErrInvalidKnot) {
		t.Errorf("expected ErrInvalidKnot, got %v", err)
	}
}

func TestReduceAngle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if a := reduceAngle(1.5 * math.Pi); math.Abs(a+0.5*math.Pi) > 1e-12 {
		t.Errorf("expected -pi/2, got %g", a)
	}
	if a := reduceAngle(-1.5 * math.Pi); math.Abs(a-0.5*math.Pi) > 1e-12 {
		t.Errorf("expected pi/2, got %g", a)
	}
}
