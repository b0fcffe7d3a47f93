package main

import "github.com/Samuel-Rojas/Momentum/cmd"

func main() {
	cmd.Execute()
}
