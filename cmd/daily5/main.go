package main

import (
	"daily5/cmd/cmd"
	"daily5/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
