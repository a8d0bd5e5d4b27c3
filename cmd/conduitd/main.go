package main

import "github.com/Hamed-de0/conduit-dashboard/pkg/cli"

func main() {
	cli.Execute()
}
