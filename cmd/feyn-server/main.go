package main

import "github.com/oshokin/feynman-diagrams/cmd/feyn-server/cmd"

func main() {
	cmd.Execute()
}
