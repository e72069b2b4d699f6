// Package main is the entry point for the termscout binary.
package main

import "github.com/termscout/termscout/cmd"

func main() {
	cmd.Execute()
}
