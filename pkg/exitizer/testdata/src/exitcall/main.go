package main

import "os"

// A
type A struct{}

// Exit
func (a A) Exit() {}

// Exit
func Exit() {}

func run() {
	os.Exit(2)
}

func main() {
	defer func() {
		os.Exit(1) // want "os.Exit call"
	}()
	os.Exit(1) // want "os.Exit call"
	Exit()
	a := A{}
	a.Exit()
	run()
}
