// Command hermes is the CLI entry point tying together the core
// engine (keystore, seal, open, chunk, shamir) with the ambient
// config/logging layers. Dispatch follows the teacher's one-binary,
// subcommand-ish convention (cmd/*/cmd/main.go in the original repo
// was one main per service; here it collapses to one main dispatching
// every subcommand, using the standard library's flag package — the one
// ambient concern with no CLI-flag library anywhere in the retrieved
// example pack).
package main

import (
	"fmt"
	"os"

	"github.com/ChronoCoders/hermes/internal/config"
	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/hlog"
	"github.com/ChronoCoders/hermes/internal/keystore"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	home, err := config.HomeDir()
	if err != nil {
		fail(err)
	}

	ks, err := keystore.Open(home + "/keys")
	if err != nil {
		fail(err)
	}
	recipients, err := keystore.OpenRecipients(home + "/recipients")
	if err != nil {
		fail(err)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var cmdErr error
	switch cmd {
	case "keygen":
		cmdErr = runKeygen(ks, args)
	case "rotate":
		cmdErr = runRotate(ks, args)
	case "seal":
		cmdErr = runSeal(ks, args)
	case "open":
		cmdErr = runOpen(ks, recipients, args)
	case "split":
		cmdErr = runSplit(args)
	case "recover":
		cmdErr = runRecover(args)
	case "import":
		cmdErr = runImport(recipients, args)
	case "list":
		cmdErr = runList(ks)
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		fail(cmdErr)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: hermes <keygen|rotate|seal|open|split|recover|import|list> [flags]")
}

func fail(err error) {
	if kind, ok := herrors.KindOf(err); ok {
		hlog.Errorf("hermes", "%s: %v", kind, err)
	} else {
		hlog.Errorf("hermes", "%v", err)
	}
	os.Exit(1)
}
