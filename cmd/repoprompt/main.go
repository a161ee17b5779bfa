package main

import (
	"fmt"

	"github.com/temirov/repoprompt/internal/cli"
	"github.com/temirov/repoprompt/internal/utils"
)

// main is the entry point for the repoprompt command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() {
		_ = loggerInstance.Sync()
	}()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
