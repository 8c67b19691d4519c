// Command robopost translates instruction programs into robot controller code.
package main

import (
	"os"

	"github.com/roach88/robopost/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
