// 16 Oct 2026
package main

import (
	"os"

	"github.com/andrew-torda/ssbond/pkg/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
