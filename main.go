package main

import "github.com/alconley/sps-plot/cmd"

func main() {
	cmd.Execute()
}
