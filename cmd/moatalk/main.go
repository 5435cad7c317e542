package main

import (
	"github.com/moatalk/moatalk/cmd/moatalk/cmd"
)

func main() {
	cmd.Execute()
}
