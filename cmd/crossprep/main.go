package main

import "github.com/dmalone/crossprep/internal/cmd"

func main() {
	cmd.Execute()
}
