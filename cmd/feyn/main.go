package main

import "github.com/oshokin/feynman-diagrams/cmd/feyn/cmd"

func main() {
	cmd.Execute()
}
