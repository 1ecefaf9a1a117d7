package main

import "github.com/canopy-network/lphelper/cmd/cli"

func main() {
	cli.Execute()
}
