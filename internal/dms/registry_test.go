package dms

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func TestRegisterCheckInStatusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dms_registry.json")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := r.Register("will.pdf", 7, "+15550001111"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	entry, err := r.Status("will.pdf")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if entry.IntervalDays != 7 || entry.EscalatePhone != "+15550001111" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Status("will.pdf"); err != nil {
		t.Fatalf("Status after reopen: %v", err)
	}
}

func TestOverdueDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dms_registry.json")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Register("secret.txt", 1, ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	future := time.Now().AddDate(0, 0, 3)
	overdue := r.Overdue(future)
	if len(overdue) != 1 || overdue[0].Name != "secret.txt" {
		t.Fatalf("expected secret.txt overdue at +3 days, got %+v", overdue)
	}

	notYet := r.Overdue(time.Now())
	if len(notYet) != 0 {
		t.Fatalf("expected nothing overdue immediately after registration, got %+v", notYet)
	}
}

func TestMarkReleasedStopsFurtherOverdueReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dms_registry.json")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Register("deadline.bin", 1, ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	future := time.Now().AddDate(0, 0, 3)
	if err := r.MarkReleased("deadline.bin"); err != nil {
		t.Fatalf("MarkReleased: %v", err)
	}
	if overdue := r.Overdue(future); len(overdue) != 0 {
		t.Fatalf("expected no overdue entries after release, got %+v", overdue)
	}
}

func TestCheckInUnknownNameFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dms_registry.json")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.CheckIn("nobody"); !herrors.Is(err, herrors.KeyNotFound) {
		t.Fatalf("expected KeyNotFound, got %v", err)
	}
}
