package main

import "github.com/mselser95/arbcore/cmd"

func main() {
	cmd.Execute()
}
