package main

import "github.com/oshokin/sleep-watch/cmd/sleep-override/cmd"

func main() {
	cmd.Execute()
}
