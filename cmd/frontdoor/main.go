// Command frontdoor drives the sign-in and registration flows from a
// terminal. Codes are delivered through the configured sender; in
// development they land as HTML files under EMAIL_DEV_OUTPUT_DIR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "login":
		err = cmdLogin(ctx, os.Args[2:])
	case "register":
		err = cmdRegister(ctx, os.Args[2:])
	case "migrate":
		err = cmdMigrate(ctx, os.Args[2:])
	case "index":
		err = cmdIndex(ctx, os.Args[2:])
	case "health":
		err = cmdHealth(ctx)
	case "keygen":
		err = cmdKeygen()
	case "drivers":
		err = cmdDrivers()
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: frontdoor <command> [flags]

commands:
  login     -email <addr>                     send a code and sign in
  register  -email <addr> -name <name>        verify an address and create an account
  migrate                                     prepare the account store (postgres, mongodb)
  index                                       create the OpenSearch events index
  health                                      ping the configured backends
  keygen                                      print a new FRONTDOOR_APP_KEY
  drivers                                     list account drivers`)
}
