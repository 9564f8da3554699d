// Package keystore manages the on-disk directory of long-term
// asymmetric keys: one RSA-4096 keypair per name, plus optional
// Kyber-1024 and Dilithium-5 keypairs, addressed by name and
// identified by fingerprint. Its "state" is the filesystem subtree
// under $HERMES_HOME/keys — there is no in-memory cache, so two
// sequential calls may observe different states if another process
// wrote between them, matching the no-global-state design the rest of
// the core follows.
package keystore

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/kem"
	"github.com/ChronoCoders/hermes/internal/sign"
)

// Store is a filesystem-backed key directory rooted at Dir.
type Store struct {
	Dir string // <home>/.hermes/keys
}

// RecipientStore is the separate, signature/decryption-inert directory
// of imported public keys.
type RecipientStore struct {
	Dir string // <home>/.hermes/recipients
}

// Open returns a Store rooted at dir, creating dir and its archive/
// subdirectory if they don't exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "archive"), dirMode); err != nil {
		return nil, herrors.New(herrors.IoError, "keystore.Open", err)
	}
	return &Store{Dir: dir}, nil
}

// OpenRecipients returns a RecipientStore rooted at dir.
func OpenRecipients(dir string) (*RecipientStore, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, herrors.New(herrors.IoError, "keystore.OpenRecipients", err)
	}
	return &RecipientStore{Dir: dir}, nil
}

// GenerateOpts selects which optional keypairs generate()/rotate()
// produce alongside the always-present RSA pair.
type GenerateOpts struct {
	Kyber      bool
	Dilithium  bool
}

// KeySet is one name's keys, loaded from disk. Private fields are nil
// when only the public half was requested or exists.
type KeySet struct {
	Name string

	RSAPublic  *rsa.PublicKey
	RSAPrivate *rsa.PrivateKey

	KyberPublic  []byte
	KyberPrivate []byte

	DilithiumPublic  []byte
	DilithiumPrivate []byte
}

func (s *Store) rsaPrivPath(name string) string       { return filepath.Join(s.Dir, name+".pem") }
func (s *Store) rsaPubPath(name string) string        { return filepath.Join(s.Dir, name+".pub") }
func (s *Store) kyberPrivPath(name string) string      { return filepath.Join(s.Dir, name+"_kyber.pem") }
func (s *Store) kyberPubPath(name string) string       { return filepath.Join(s.Dir, name+"_kyber.pub") }
func (s *Store) dilithiumPrivPath(name string) string  { return filepath.Join(s.Dir, name+"_dilithium.pem") }
func (s *Store) dilithiumPubPath(name string) string   { return filepath.Join(s.Dir, name+"_dilithium.pub") }

// Generate creates a new named key set: always an RSA-4096 keypair,
// plus Kyber and/or Dilithium when opts requests them. Fails with
// IoError if any target file already exists — callers that want to
// replace an existing key must go through Rotate.
func (s *Store) Generate(name string, opts GenerateOpts) (*KeySet, error) {
	targets := []string{s.rsaPrivPath(name), s.rsaPubPath(name)}
	if opts.Kyber {
		targets = append(targets, s.kyberPrivPath(name), s.kyberPubPath(name))
	}
	if opts.Dilithium {
		targets = append(targets, s.dilithiumPrivPath(name), s.dilithiumPubPath(name))
	}
	for _, p := range targets {
		if s.exists(p) {
			return nil, herrors.New(herrors.IoError, "keystore.Generate", fmt.Errorf("key %q already exists", name))
		}
	}

	ks := &KeySet{Name: name}

	rsaKey, err := kem.GenerateRSAKeyPair()
	if err != nil {
		return nil, err
	}
	ks.RSAPrivate = rsaKey
	ks.RSAPublic = &rsaKey.PublicKey

	if opts.Kyber {
		pub, priv, err := kem.GenerateKyberKeyPair()
		if err != nil {
			return nil, err
		}
		ks.KyberPublic, ks.KyberPrivate = pub, priv
	}
	if opts.Dilithium {
		pub, priv, err := sign.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		ks.DilithiumPublic, ks.DilithiumPrivate = pub, priv
	}

	if err := s.writeKeySet(ks); err != nil {
		return nil, err
	}
	return ks, nil
}

func (s *Store) exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *Store) writeKeySet(ks *KeySet) error {
	privPEM, pubPEM, err := encodeRSAPEM(ks.RSAPrivate)
	if err != nil {
		return err
	}
	if err := atomicWrite(s.rsaPrivPath(ks.Name), privPEM, privateFileMode); err != nil {
		return err
	}
	if err := atomicWrite(s.rsaPubPath(ks.Name), pubPEM, publicFileMode); err != nil {
		return err
	}

	if ks.KyberPrivate != nil {
		if err := atomicWrite(s.kyberPrivPath(ks.Name), encodeCustomPEM(kyberPrivateLabel(), ks.KyberPrivate), privateFileMode); err != nil {
			return err
		}
		if err := atomicWrite(s.kyberPubPath(ks.Name), encodeCustomPEM(kyberPublicLabel(), ks.KyberPublic), publicFileMode); err != nil {
			return err
		}
	}
	if ks.DilithiumPrivate != nil {
		if err := atomicWrite(s.dilithiumPrivPath(ks.Name), encodeCustomPEM(dilithiumPrivateLabel(), ks.DilithiumPrivate), privateFileMode); err != nil {
			return err
		}
		if err := atomicWrite(s.dilithiumPubPath(ks.Name), encodeCustomPEM(dilithiumPublicLabel(), ks.DilithiumPublic), publicFileMode); err != nil {
			return err
		}
	}
	return nil
}

// LoadPublic loads only the public halves of name's key set. Any
// optional primitive whose public file is absent is left nil on the
// returned KeySet rather than erroring.
func (s *Store) LoadPublic(name string) (*KeySet, error) {
	ks := &KeySet{Name: name}

	pubPEM, err := os.ReadFile(s.rsaPubPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, herrors.New(herrors.KeyNotFound, "keystore.LoadPublic", err)
		}
		return nil, herrors.New(herrors.IoError, "keystore.LoadPublic", err)
	}
	pub, err := decodeRSAPublicPEM(pubPEM)
	if err != nil {
		return nil, err
	}
	ks.RSAPublic = pub

	if data, err := os.ReadFile(s.kyberPubPath(name)); err == nil {
		raw, err := decodeCustomPEM(kyberPublicLabel(), data, kem.KyberPublicKeySize)
		if err != nil {
			return nil, err
		}
		ks.KyberPublic = raw
	}
	if data, err := os.ReadFile(s.dilithiumPubPath(name)); err == nil {
		raw, err := decodeCustomPEM(dilithiumPublicLabel(), data, sign.PublicKeySize)
		if err != nil {
			return nil, err
		}
		ks.DilithiumPublic = raw
	}
	return ks, nil
}

// LoadPrivate loads the full key set, public and private halves,
// needed to unwrap or sign. KeyNotFound if the RSA private key (the
// mandatory primitive) is missing.
func (s *Store) LoadPrivate(name string) (*KeySet, error) {
	ks, err := s.LoadPublic(name)
	if err != nil {
		return nil, err
	}

	privPEM, err := os.ReadFile(s.rsaPrivPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, herrors.New(herrors.KeyNotFound, "keystore.LoadPrivate", err)
		}
		return nil, herrors.New(herrors.IoError, "keystore.LoadPrivate", err)
	}
	priv, err := decodeRSAPrivatePEM(privPEM)
	if err != nil {
		return nil, err
	}
	ks.RSAPrivate = priv

	if data, err := os.ReadFile(s.kyberPrivPath(name)); err == nil {
		raw, err := decodeCustomPEM(kyberPrivateLabel(), data, kem.KyberPrivateKeySize)
		if err != nil {
			return nil, err
		}
		ks.KyberPrivate = raw
	}
	if data, err := os.ReadFile(s.dilithiumPrivPath(name)); err == nil {
		raw, err := decodeCustomPEM(dilithiumPrivateLabel(), data, sign.PrivateKeySize)
		if err != nil {
			return nil, err
		}
		ks.DilithiumPrivate = raw
	}
	return ks, nil
}

// List returns the names with at least an RSA public key on file,
// sorted lexically.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, herrors.New(herrors.IoError, "keystore.List", err)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		const suffix = ".pub"
		if filepath.Ext(name) == suffix && !isDerivedPubFile(name) {
			seen[name[:len(name)-len(suffix)]] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func isDerivedPubFile(fname string) bool {
	base := fname[:len(fname)-len(".pub")]
	return hasSuffixAny(base, "_kyber", "_dilithium")
}

func hasSuffixAny(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if len(s) >= len(suf) && s[len(s)-len(suf):] == suf {
			return true
		}
	}
	return false
}

// Rotate archives name's existing key files under archive/ with a
// UTC timestamp, then generates a fresh key set in their place. If
// archive is false the prior files are simply overwritten (still
// through atomic rename, so a crash mid-rotation cannot corrupt
// either the old or the new material — it can only leave the old
// material in place with the new generation undone). Without archive,
// Kyber or Dilithium files that the new set does not include are
// deleted once the new set is written.
func (s *Store) Rotate(name string, archive bool, opts GenerateOpts) (*KeySet, error) {
	if archive {
		if err := s.archiveKeySet(name); err != nil {
			return nil, err
		}
	}

	ks := &KeySet{Name: name}
	rsaKey, err := kem.GenerateRSAKeyPair()
	if err != nil {
		return nil, err
	}
	ks.RSAPrivate = rsaKey
	ks.RSAPublic = &rsaKey.PublicKey

	if opts.Kyber {
		pub, priv, err := kem.GenerateKyberKeyPair()
		if err != nil {
			return nil, err
		}
		ks.KyberPublic, ks.KyberPrivate = pub, priv
	}
	if opts.Dilithium {
		pub, priv, err := sign.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		ks.DilithiumPublic, ks.DilithiumPrivate = pub, priv
	}

	if err := s.writeKeySet(ks); err != nil {
		return nil, err
	}
	if !archive {
		s.removeStaleOptional(name, opts)
	}
	return ks, nil
}

func (s *Store) archiveKeySet(name string) error {
	stamp := time.Now().UTC().Format("20060102_150405")
	moves := []struct {
		from, extSuffix string
	}{
		{s.rsaPrivPath(name), ".pem"},
		{s.rsaPubPath(name), ".pub"},
		{s.kyberPrivPath(name), "_kyber.pem"},
		{s.kyberPubPath(name), "_kyber.pub"},
		{s.dilithiumPrivPath(name), "_dilithium.pem"},
		{s.dilithiumPubPath(name), "_dilithium.pub"},
	}
	for _, m := range moves {
		if !s.exists(m.from) {
			continue
		}
		data, err := os.ReadFile(m.from)
		if err != nil {
			return herrors.New(herrors.IoError, "keystore.archiveKeySet", err)
		}
		mode := privateFileMode
		if filepath.Ext(m.from) == ".pub" {
			mode = publicFileMode
		}
		dest := filepath.Join(s.Dir, "archive", fmt.Sprintf("%s_%s%s", name, stamp, m.extSuffix))
		if err := atomicWrite(dest, data, os.FileMode(mode)); err != nil {
			return err
		}
	}
	return nil
}

// removeStaleOptional deletes name's Kyber and Dilithium files when
// opts says the freshly written set does not include them.
func (s *Store) removeStaleOptional(name string, opts GenerateOpts) {
	if !opts.Kyber {
		os.Remove(s.kyberPrivPath(name))
		os.Remove(s.kyberPubPath(name))
	}
	if !opts.Dilithium {
		os.Remove(s.dilithiumPrivPath(name))
		os.Remove(s.dilithiumPubPath(name))
	}
}

// ExportPublic writes name's public key material to path, concatenating
// whichever of RSA/Kyber/Dilithium public PEMs exist.
func (s *Store) ExportPublic(name, path string) error {
	ks, err := s.LoadPublic(name)
	if err != nil {
		return err
	}
	privPEM, pubPEM, err := encodeRSAPEMPublicOnly(ks.RSAPublic)
	_ = privPEM
	if err != nil {
		return err
	}
	out := pubPEM
	if ks.KyberPublic != nil {
		out = append(out, encodeCustomPEM(kyberPublicLabel(), ks.KyberPublic)...)
	}
	if ks.DilithiumPublic != nil {
		out = append(out, encodeCustomPEM(dilithiumPublicLabel(), ks.DilithiumPublic)...)
	}
	if err := os.WriteFile(path, out, publicFileMode); err != nil {
		return herrors.New(herrors.IoError, "keystore.ExportPublic", err)
	}
	return nil
}

// ImportRecipient reads a public key bundle from path (as produced by
// ExportPublic) and stores it under name in the recipient store,
// round-trip decoding every block before anything touches disk.
func (r *RecipientStore) ImportRecipient(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return herrors.New(herrors.IoError, "keystore.ImportRecipient", err)
	}
	name = normalizeName(name)

	pub, err := decodeRSAPublicPEM(data)
	if err != nil {
		return err
	}
	_, rePEM, err := encodeRSAPEMPublicOnly(pub)
	if err != nil {
		return err
	}
	out := rePEM

	if raw, err := decodeCustomPEM(kyberPublicLabel(), data, kem.KyberPublicKeySize); err == nil {
		out = append(out, encodeCustomPEM(kyberPublicLabel(), raw)...)
	}
	if raw, err := decodeCustomPEM(dilithiumPublicLabel(), data, sign.PublicKeySize); err == nil {
		out = append(out, encodeCustomPEM(dilithiumPublicLabel(), raw)...)
	}

	return atomicWrite(filepath.Join(r.Dir, name+".pub"), out, publicFileMode)
}

// LoadRecipient loads an imported public key bundle by name.
func (r *RecipientStore) LoadRecipient(name string) (*KeySet, error) {
	name = normalizeName(name)
	data, err := os.ReadFile(filepath.Join(r.Dir, name+".pub"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, herrors.New(herrors.KeyNotFound, "keystore.LoadRecipient", err)
		}
		return nil, herrors.New(herrors.IoError, "keystore.LoadRecipient", err)
	}

	ks := &KeySet{Name: name}
	pub, err := decodeRSAPublicPEM(data)
	if err != nil {
		return nil, err
	}
	ks.RSAPublic = pub

	if raw, err := decodeCustomPEM(kyberPublicLabel(), data, kem.KyberPublicKeySize); err == nil {
		ks.KyberPublic = raw
	}
	if raw, err := decodeCustomPEM(dilithiumPublicLabel(), data, sign.PublicKeySize); err == nil {
		ks.DilithiumPublic = raw
	}
	return ks, nil
}

func encodeRSAPEM(priv *rsa.PrivateKey) (privPEM, pubPEM []byte, err error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, herrors.New(herrors.KeyParseError, "keystore.encodeRSAPEM", err)
	}
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, herrors.New(herrors.KeyParseError, "keystore.encodeRSAPEM", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM, nil
}

func encodeRSAPEMPublicOnly(pub *rsa.PublicKey) (privPEM, pubPEM []byte, err error) {
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, nil, herrors.New(herrors.KeyParseError, "keystore.encodeRSAPEMPublicOnly", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return nil, pubPEM, nil
}

func decodeRSAPublicPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeRSAPublicPEM", nil)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeRSAPublicPEM", err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeRSAPublicPEM", fmt.Errorf("not an RSA public key"))
	}
	return pub, nil
}

func decodeRSAPrivatePEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeRSAPrivatePEM", nil)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeRSAPrivatePEM", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeRSAPrivatePEM", fmt.Errorf("not an RSA private key"))
	}
	return priv, nil
}
