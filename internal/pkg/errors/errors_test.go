package errors

import (
	stderrors "errors"
	"testing"
)

func TestSurfacedKinds(t *testing.T) {
	surfaced := []Kind{KindRoutingUnavailable, KindDeadlineExceeded, KindInvalidInput, KindInternal}
	for _, k := range surfaced {
		if !k.Surfaced() {
			t.Fatalf("expected %s to be surfaced", k)
		}
	}

	recovered := []Kind{KindParseSkip, KindCacheStale, KindCacheCorrupt, KindNoRampMatch, KindMissingPrice}
	for _, k := range recovered {
		if k.Surfaced() {
			t.Fatalf("expected %s to be recovered internally, not surfaced", k)
		}
	}
}

func TestErrorIsMatchesOnKind(t *testing.T) {
	err := InvalidInput("pipeline.Route", "bad vehicle class")
	sentinel := New(KindInvalidInput, "", "")

	if !stderrors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is to match on Kind")
	}

	other := New(KindInternal, "", "")
	if stderrors.Is(err, other) {
		t.Fatalf("expected errors.Is to reject a different Kind")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("engine timed out")
	err := RoutingUnavailable("router.Route", cause)

	if stderrors.Unwrap(err) != cause {
		t.Fatalf("expected Unwrap to expose the cause")
	}
}
