package keystore

import (
	"path/filepath"
	"testing"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func TestGenerateLoadRSAOnly(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := s.Generate("alice", GenerateOpts{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	pub, err := s.LoadPublic("alice")
	if err != nil {
		t.Fatalf("LoadPublic: %v", err)
	}
	if pub.RSAPublic == nil {
		t.Fatalf("expected RSA public key")
	}
	if pub.KyberPublic != nil || pub.DilithiumPublic != nil {
		t.Fatalf("expected no optional primitives when not requested")
	}

	priv, err := s.LoadPrivate("alice")
	if err != nil {
		t.Fatalf("LoadPrivate: %v", err)
	}
	if priv.RSAPrivate == nil {
		t.Fatalf("expected RSA private key")
	}
}

func TestGenerateWithKyberAndDilithium(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := s.Generate("bob", GenerateOpts{Kyber: true, Dilithium: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	ks, err := s.LoadPrivate("bob")
	if err != nil {
		t.Fatalf("LoadPrivate: %v", err)
	}
	if ks.KyberPrivate == nil || ks.KyberPublic == nil {
		t.Fatalf("expected Kyber keypair")
	}
	if ks.DilithiumPrivate == nil || ks.DilithiumPublic == nil {
		t.Fatalf("expected Dilithium keypair")
	}
}

func TestGenerateRejectsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Generate("carol", GenerateOpts{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := s.Generate("carol", GenerateOpts{}); !herrors.Is(err, herrors.IoError) {
		t.Fatalf("expected IoError for duplicate name, got %v", err)
	}
}

func TestLoadPublicMissingIsKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.LoadPublic("nobody"); !herrors.Is(err, herrors.KeyNotFound) {
		t.Fatalf("expected KeyNotFound, got %v", err)
	}
}

func TestListReturnsNamesOnly(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Generate("dave", GenerateOpts{Kyber: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := s.Generate("erin", GenerateOpts{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "dave" || names[1] != "erin" {
		t.Fatalf("List = %v, want [dave erin] (derived _kyber.pub must not appear)", names)
	}
}

func TestRotateArchivesOldKey(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	original, err := s.Generate("frank", GenerateOpts{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	rotated, err := s.Rotate("frank", true, GenerateOpts{})
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if rotated.RSAPrivate.D.Cmp(original.RSAPrivate.D) == 0 {
		t.Fatalf("rotated key must differ from original")
	}

	entries, err := filepath.Glob(filepath.Join(dir, "keys", "archive", "frank_*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected archived files under archive/, found none")
	}

	loaded, err := s.LoadPrivate("frank")
	if err != nil {
		t.Fatalf("LoadPrivate after rotate: %v", err)
	}
	if loaded.RSAPrivate.D.Cmp(rotated.RSAPrivate.D) != 0 {
		t.Fatalf("loaded key after rotate does not match the rotated key")
	}
}

func TestRotateWithoutArchiveDiscardsOldKey(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Generate("grace", GenerateOpts{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := s.Rotate("grace", false, GenerateOpts{}); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	entries, err := filepath.Glob(filepath.Join(dir, "keys", "archive", "grace_*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no archive entries when archive=false, found %v", entries)
	}
}

func TestExportImportRecipientRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "keys"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Generate("heidi", GenerateOpts{Kyber: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	exportPath := filepath.Join(dir, "heidi_export.pub")
	if err := s.ExportPublic("heidi", exportPath); err != nil {
		t.Fatalf("ExportPublic: %v", err)
	}

	rs, err := OpenRecipients(filepath.Join(dir, "recipients"))
	if err != nil {
		t.Fatalf("OpenRecipients: %v", err)
	}
	if err := rs.ImportRecipient("heidi", exportPath); err != nil {
		t.Fatalf("ImportRecipient: %v", err)
	}

	recipient, err := rs.LoadRecipient("heidi")
	if err != nil {
		t.Fatalf("LoadRecipient: %v", err)
	}
	if recipient.RSAPublic == nil {
		t.Fatalf("expected RSA public key on imported recipient")
	}
	if recipient.KyberPublic == nil {
		t.Fatalf("expected Kyber public key on imported recipient")
	}
}
