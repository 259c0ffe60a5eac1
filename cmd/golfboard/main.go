package main

import (
	"golfboard/cmd/golfboard/commands"
	"golfboard/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
