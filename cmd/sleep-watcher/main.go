package main

import "github.com/oshokin/sleep-watch/cmd/sleep-watcher/cmd"

func main() {
	cmd.Execute()
}
