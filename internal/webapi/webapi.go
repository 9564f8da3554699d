// Package webapi is the optional HTTP façade named out of core scope
// by the specification: a thin gorilla/mux router exposing seal,
// open, split, and recover over HTTP, reusing the teacher's router
// setup style (mux.NewRouter, method-scoped routes, JSON bodies).
package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/hlog"
	"github.com/ChronoCoders/hermes/internal/keystore"
	"github.com/ChronoCoders/hermes/internal/open"
	"github.com/ChronoCoders/hermes/internal/seal"
	"github.com/ChronoCoders/hermes/internal/shamir"
)

// Server wires the core operations behind HTTP handlers.
type Server struct {
	Keys       *keystore.Store
	Recipients *keystore.RecipientStore
}

// Router builds the mux.Router for the façade.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/seal", s.handleSeal).Methods(http.MethodPost)
	r.HandleFunc("/v1/open", s.handleOpen).Methods(http.MethodPost)
	r.HandleFunc("/v1/shamir/split", s.handleSplit).Methods(http.MethodPost)
	r.HandleFunc("/v1/shamir/recover", s.handleRecover).Methods(http.MethodPost)
	return r
}

type sealRequest struct {
	PlaintextB64 string   `json:"plaintext_b64"`
	Passphrase   string   `json:"passphrase,omitempty"`
	Recipients   []string `json:"recipients,omitempty"`
	Filename     string   `json:"filename,omitempty"`
	TTLHours     int      `json:"ttl_hours,omitempty"`
	PQ           bool     `json:"pq,omitempty"`
}

type openRequest struct {
	EnvelopeB64 string `json:"envelope_b64"`
	Passphrase  string `json:"passphrase,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
}

func (s *Server) handleSeal(w http.ResponseWriter, r *http.Request) {
	var req sealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plaintext, err := decodeB64(req.PlaintextB64)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := seal.Seal(seal.Request{
		Plaintext:  plaintext,
		Passphrase: req.Passphrase,
		Recipients: req.Recipients,
		Filename:   req.Filename,
		TTLHours:   req.TTLHours,
		PQ:         req.PQ,
	}, s.Keys)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"envelope_b64": encodeB64(out)})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	env, err := decodeB64(req.EnvelopeB64)
	if err != nil {
		writeError(w, err)
		return
	}

	plaintext, meta, err := open.Open(env, req.Passphrase, req.Recipient, s.Keys)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"plaintext_b64": encodeB64(plaintext),
		"filename":      meta.Filename,
	})
}

type splitRequest struct {
	SecretB64 string `json:"secret_b64"`
	K         int    `json:"k"`
	N         int    `json:"n"`
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	secret, err := decodeB64(req.SecretB64)
	if err != nil {
		writeError(w, err)
		return
	}

	shares, err := shamir.Split(secret, req.K, req.N)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"shares": shares})
}

type recoverRequest struct {
	Shares []shamir.Share `json:"shares"`
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	secret, err := shamir.Recover(req.Shares)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"secret_b64": encodeB64(secret)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.Errorf("webapi", "failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := herrors.KindOf(err); ok {
		switch kind {
		case herrors.KeyNotFound, herrors.Expired:
			status = http.StatusNotFound
		case herrors.DecryptionFailed, herrors.IntegrityFailed, herrors.SignatureInvalid, herrors.ShareInvalid, herrors.KeyParseError:
			status = http.StatusBadRequest
		case herrors.ConfigError:
			status = http.StatusInternalServerError
		}
	}
	hlog.Errorf("webapi", "%v", err)
	http.Error(w, err.Error(), status)
}
