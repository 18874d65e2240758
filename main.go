package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/An00bRektn/htb-cli/cmd"
	"github.com/An00bRektn/htb-cli/internal/prompt"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		prompt.Restore()
		os.Stdout.WriteString("\n")
		ui.New(os.Stdout).Error("Exiting...")
		os.Exit(130)
	}()

	os.Exit(cmd.Execute(context.Background()))
}
