package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ChronoCoders/hermes/internal/hlog"
	"github.com/ChronoCoders/hermes/internal/shamir"
)

// runSplit mirrors the original implementation's key_split.rs command
// shape: one JSON file per share, named <out-prefix>_<x>.json.
func runSplit(args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	in := fs.String("in", "", "secret file to split")
	outPrefix := fs.String("out-prefix", "share", "output filename prefix")
	k := fs.Int("k", 3, "threshold")
	n := fs.Int("n", 5, "total shares")
	fs.Parse(args)

	secret, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	shares, err := shamir.Split(secret, *k, *n)
	if err != nil {
		return err
	}

	for _, s := range shares {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		path := fmt.Sprintf("%s_%d.json", *outPrefix, s.X)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		hlog.Infof("split", "wrote %s", path)
	}
	return nil
}

func runRecover(args []string) error {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	out := fs.String("out", "", "output secret file")
	fs.Parse(args)

	var shares []shamir.Share
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var s shamir.Share
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		shares = append(shares, s)
	}

	secret, err := shamir.Recover(shares)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, secret, 0o600); err != nil {
		return err
	}
	hlog.Infof("recover", "wrote %s (%d bytes) from %d shares", *out, len(secret), len(shares))
	return nil
}
