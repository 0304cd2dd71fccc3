package main

import "github.com/gofirrtl/resetinfer/pkg/cmd"

func main() {
	cmd.Execute()
}
