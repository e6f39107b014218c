package main

import (
	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd"
)

func main() {
	cmd.Execute()
}
