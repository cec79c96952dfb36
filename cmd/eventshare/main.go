package main

import "event-share/cmd/eventshare/cmd"

func main() {
	cmd.Execute()
}
