package main

import (
	"flag"

	"github.com/ChronoCoders/hermes/internal/hlog"
	"github.com/ChronoCoders/hermes/internal/keystore"
)

func runKeygen(ks *keystore.Store, args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	name := fs.String("name", "", "key name")
	kyber := fs.Bool("kyber", false, "also generate a Kyber-1024 keypair")
	dilithium := fs.Bool("dilithium", false, "also generate a Dilithium-5 keypair")
	fs.Parse(args)

	_, err := ks.Generate(*name, keystore.GenerateOpts{Kyber: *kyber, Dilithium: *dilithium})
	if err != nil {
		return err
	}
	hlog.Infof("keygen", "generated key set %q", *name)
	return nil
}

func runRotate(ks *keystore.Store, args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ExitOnError)
	name := fs.String("name", "", "key name")
	kyber := fs.Bool("kyber", false, "also regenerate a Kyber-1024 keypair")
	dilithium := fs.Bool("dilithium", false, "also regenerate a Dilithium-5 keypair")
	noArchive := fs.Bool("no-archive", false, "overwrite without archiving the old material")
	fs.Parse(args)

	_, err := ks.Rotate(*name, !*noArchive, keystore.GenerateOpts{Kyber: *kyber, Dilithium: *dilithium})
	if err != nil {
		return err
	}
	hlog.Infof("rotate", "rotated key set %q", *name)
	return nil
}

func runImport(recipients *keystore.RecipientStore, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	name := fs.String("name", "", "recipient name")
	path := fs.String("file", "", "path to exported public key bundle")
	fs.Parse(args)

	if err := recipients.ImportRecipient(*name, *path); err != nil {
		return err
	}
	hlog.Infof("import", "imported recipient %q from %s", *name, *path)
	return nil
}

func runList(ks *keystore.Store) error {
	names, err := ks.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		hlog.Infof("list", "%s", n)
	}
	return nil
}
