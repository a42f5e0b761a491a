package main

import "github.com/ratekit/qctl/pkg/cli"

func main() {
	cli.Execute()
}
