package main

import (
	"github.com/causewaykb/causeway/internal/server"
	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/logger"
	"github.com/causewaykb/causeway/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
