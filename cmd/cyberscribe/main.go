package main

import (
	"cyberscribe/cmd/cmd"
	"cyberscribe/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
