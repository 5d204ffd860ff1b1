package main

import "github.com/vibast-solutions/ms-go-lava/cmd"

func main() {
	cmd.Execute()
}
