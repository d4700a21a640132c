package main

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/dirscan/internal/cli"
	"github.com/temirov/dirscan/internal/utils"
)

// main is the entry point for the dirscan command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(zapcore.InfoLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
