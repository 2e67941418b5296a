package main

import (
	"github.com/taskdeck/taskdeck/cmd"
	"github.com/taskdeck/taskdeck/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
