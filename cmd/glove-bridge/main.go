package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/gommon/color"
	"github.com/signspeak/rt-glove-wrapper/internal/bridge"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	go func() {
		waitCh := make(chan os.Signal, 2)
		signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
		<-waitCh
		goapp.Log.Info().Msg("Got exit signal")
		cancelFunc()
	}()

	err := bridge.Run(ctx, bridge.Config{
		BrokerURL:  cfg.GetString("bridge.broker"),
		ClientID:   cfg.GetString("bridge.clientID"),
		Prefix:     cfg.GetString("bridge.topicPrefix"),
		Device:     cfg.GetString("bridge.device"),
		Kind:       cfg.GetString("bridge.kind"),
		SerialPort: cfg.GetString("bridge.serialPort"),
		BaudRate:   cfg.GetUint("bridge.baudRate"),
		SampleRate: cfg.GetInt("bridge.sampleRate"),
	})
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("bridge failed")
	}
	goapp.Log.Info().Msg("Bye")
}

var (
	version = "DEV"
)

func printBanner() {
	banner :=
		`
    SIGN GLOVE BRIDGE v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/signspeak/rt-glove-wrapper"))
}
