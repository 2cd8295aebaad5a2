// Package main provides a one-shot utility for RSVP grant key generation.
//
// It emits the asymmetric keypair used to sign and verify RSVP grant links.
package main

import (
	"os"

	"github.com/louisbranch/courtside/internal/platform/config"
	"github.com/louisbranch/courtside/internal/tools/rsvpgrant"
)

func main() {
	if err := rsvpgrant.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate rsvp grant key: %v", err)
	}
}
