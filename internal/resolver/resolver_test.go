package resolver

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/raido/internal/index"
)

func testSetup(t *testing.T) (*index.DB, *Resolver) {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := index.Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return db, New(db, logger)
}

func upsert(t *testing.T, db *index.DB, path string, links ...string) {
	t.Helper()
	now := time.Now()
	if err := db.UpsertNote(index.NoteRow{Path: path, Checksum: path, CreatedAt: now, UpdatedAt: now}, links); err != nil {
		t.Fatalf("UpsertNote(%s): %v", path, err)
	}
}

func TestResolve_VaultAbsolute(t *testing.T) {
	db, r := testSetup(t)
	upsert(t, db, "topics/go.md")

	got, ok := r.Resolve("topics/go", "home.md")
	if !ok || got != "topics/go.md" {
		t.Errorf("Resolve = %q, %v", got, ok)
	}
}

func TestResolve_RelativeBeforeAbsolute(t *testing.T) {
	db, r := testSetup(t)
	upsert(t, db, "a/n.md")
	upsert(t, db, "n.md")

	// From inside a/, the relative sibling wins.
	got, ok := r.Resolve("n", "a/source.md")
	if !ok || got != "a/n.md" {
		t.Errorf("Resolve = %q, %v, want a/n.md", got, ok)
	}
	// From the root, the vault-absolute note wins.
	got, ok = r.Resolve("n", "source.md")
	if !ok || got != "n.md" {
		t.Errorf("Resolve = %q, %v, want n.md", got, ok)
	}
}

func TestResolve_ShortestUniqueName(t *testing.T) {
	db, r := testSetup(t)
	upsert(t, db, "deep/nested/idea.md")
	upsert(t, db, "short/idea.md")

	got, ok := r.Resolve("idea", "home.md")
	if !ok || got != "short/idea.md" {
		t.Errorf("Resolve = %q, %v, want short/idea.md", got, ok)
	}
}

func TestResolve_MissingDropped(t *testing.T) {
	_, r := testSetup(t)
	if _, ok := r.Resolve("ghost", "home.md"); ok {
		t.Error("expected unresolvable target to fail")
	}
}

func TestNeighbors_OutboundAndInbound(t *testing.T) {
	db, r := testSetup(t)
	upsert(t, db, "home.md", "A", "B")
	upsert(t, db, "A.md", "home")
	upsert(t, db, "B.md")

	ns := r.Neighbors("home.md")
	if len(ns.Outbound) != 2 || ns.Outbound[0] != "A.md" || ns.Outbound[1] != "B.md" {
		t.Errorf("outbound = %v", ns.Outbound)
	}
	if len(ns.Inbound) != 1 || ns.Inbound[0] != "A.md" {
		t.Errorf("inbound = %v", ns.Inbound)
	}
	// Mutual link counts on both sides.
	if ns.Degree() != 3 {
		t.Errorf("degree = %d, want 3", ns.Degree())
	}
}

func TestNeighbors_UnresolvableTargetsDropped(t *testing.T) {
	db, r := testSetup(t)
	upsert(t, db, "solo.md", "Nowhere", "AlsoNowhere")

	ns := r.Neighbors("solo.md")
	if len(ns.Outbound) != 0 || len(ns.Inbound) != 0 {
		t.Errorf("expected empty neighbor set, got %+v", ns)
	}
}

func TestNeighbors_InboundVerifiesResolution(t *testing.T) {
	db, r := testSetup(t)
	// Two notes share the basename "idea". A bare [[idea]] from home resolves
	// to the shorter path only, so the longer one must not claim the backlink.
	upsert(t, db, "idea.md")
	upsert(t, db, "deep/idea.md")
	upsert(t, db, "home.md", "idea")

	if ns := r.Neighbors("idea.md"); len(ns.Inbound) != 1 || ns.Inbound[0] != "home.md" {
		t.Errorf("idea.md inbound = %v", ns.Inbound)
	}
	if ns := r.Neighbors("deep/idea.md"); len(ns.Inbound) != 0 {
		t.Errorf("deep/idea.md inbound = %v, want none", ns.Inbound)
	}
}

func TestNeighbors_InboundRelativeSubpath(t *testing.T) {
	db, r := testSetup(t)
	// [[b/Note]] from a/x.md resolves relative to a/, so the backlink must
	// surface on a/b/Note.md even though the raw target never spells out
	// the full path.
	upsert(t, db, "a/x.md", "b/Note")
	upsert(t, db, "a/b/Note.md")

	out := r.Neighbors("a/x.md")
	if len(out.Outbound) != 1 || out.Outbound[0] != "a/b/Note.md" {
		t.Fatalf("a/x.md outbound = %v, want [a/b/Note.md]", out.Outbound)
	}
	in := r.Neighbors("a/b/Note.md")
	if len(in.Inbound) != 1 || in.Inbound[0] != "a/x.md" {
		t.Errorf("a/b/Note.md inbound = %v, want [a/x.md]", in.Inbound)
	}
}
