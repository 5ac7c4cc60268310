package main

import "github.com/oshokin/packagexml/cmd/packagexml/cmd"

func main() {
	cmd.Execute()
}
