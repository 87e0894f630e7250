package main

import "github.com/indigo-web/facet/cmd/facet/cmd"

func main() {
	cmd.Execute()
}
