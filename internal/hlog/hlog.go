// Package hlog centralizes the bracket-tag logging convention the
// teacher's cmd/*/main.go files use ad hoc (e.g. "[Storage] Created
// bucket: %s"). Core packages (keystore, kem, sign, envelope, seal,
// open, chunk, shamir) never import this — they are pure and silent;
// only the command layer and the ambient services (dms, remotestore,
// webapi) log.
package hlog

import "log"

// Infof logs an informational line tagged with component.
func Infof(component, format string, args ...interface{}) {
	log.Printf("[%s] "+format, prepend(component, args)...)
}

// Errorf logs an error line tagged with component.
func Errorf(component, format string, args ...interface{}) {
	log.Printf("[%s] ERROR: "+format, prepend(component, args)...)
}

func prepend(component string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, component)
	out = append(out, args...)
	return out
}
