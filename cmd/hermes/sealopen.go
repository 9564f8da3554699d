package main

import (
	"flag"
	"os"
	"strings"

	"github.com/ChronoCoders/hermes/internal/hlog"
	"github.com/ChronoCoders/hermes/internal/keystore"
	"github.com/ChronoCoders/hermes/internal/open"
	"github.com/ChronoCoders/hermes/internal/seal"
)

func runSeal(ks *keystore.Store, args []string) error {
	fs := flag.NewFlagSet("seal", flag.ExitOnError)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output envelope file")
	passphrase := fs.String("passphrase", "", "passphrase (mutually exclusive with -recipients)")
	recipientsFlag := fs.String("recipients", "", "comma-separated recipient names")
	ttl := fs.Int("ttl-hours", 0, "expiry in hours, 0 = never")
	pq := fs.Bool("pq", false, "wrap with Kyber-1024 instead of RSA")
	fs.Parse(args)

	plaintext, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	var recipients []string
	if *recipientsFlag != "" {
		recipients = strings.Split(*recipientsFlag, ",")
	}

	envelope, err := seal.Seal(seal.Request{
		Plaintext:  plaintext,
		Passphrase: *passphrase,
		Recipients: recipients,
		Filename:   *in,
		TTLHours:   *ttl,
		PQ:         *pq,
	}, ks)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, envelope, 0o600); err != nil {
		return err
	}
	hlog.Infof("seal", "wrote %s (%d bytes)", *out, len(envelope))
	return nil
}

func runOpen(ks *keystore.Store, recipients *keystore.RecipientStore, args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	in := fs.String("in", "", "input envelope file")
	out := fs.String("out", "", "output plaintext file")
	passphrase := fs.String("passphrase", "", "passphrase")
	recipient := fs.String("recipient", "", "recipient name whose private key unwraps the data key")
	fs.Parse(args)

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	plaintext, meta, err := open.Open(data, *passphrase, *recipient, ks)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, plaintext, 0o600); err != nil {
		return err
	}
	hlog.Infof("open", "wrote %s (%d bytes, filename=%q)", *out, len(plaintext), meta.Filename)
	return nil
}
