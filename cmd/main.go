package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/gommon/color"
	"github.com/signspeak/rt-glove-wrapper/internal/classifier"
	"github.com/signspeak/rt-glove-wrapper/internal/db"
	"github.com/signspeak/rt-glove-wrapper/internal/feedback"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
	"github.com/signspeak/rt-glove-wrapper/internal/ingress"
	"github.com/signspeak/rt-glove-wrapper/internal/service"
	"github.com/signspeak/rt-glove-wrapper/internal/simulate"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	cl, err := classifier.NewClient(cfg.GetString("classifier.url"), cfg.GetDuration("classifier.timeout"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init classifier client")
	}

	var store service.SettingsStore
	if redisURL := cfg.GetString("redis.url"); redisURL != "" {
		rStore, err := db.NewRedisStore(redisURL, cfg.GetString("redis.key"))
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init redis store")
		}
		defer rStore.Close()
		store = rStore
	} else {
		goapp.Log.Info().Msg("no redis URL, using in memory settings store")
		store = db.NewMemoryStore()
	}

	cues, err := feedback.NewCues()
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init cues")
	}

	registry := &service.Registry{
		Ctx: ctx,
		Cfg: glove.Config{
			BatchSize:                    cfg.GetInt("capture.batchSize"),
			DemoBatchSize:                cfg.GetInt("capture.demoBatchSize"),
			WindowSize:                   cfg.GetInt("capture.windowSize"),
			StableCount:                  cfg.GetInt("letter.stableCount"),
			MinConfidence:                cfg.GetFloat64("letter.minConfidence"),
			IdleTimeout:                  cfg.GetDuration("word.idleTimeout"),
			IdleCheck:                    cfg.GetDuration("word.idleCheck"),
			RawThreshold:                 cfg.GetFloat64("sample.rawThreshold"),
			HistorySize:                  cfg.GetInt("history.size"),
			DisplayInterval:              cfg.GetDuration("sample.displayInterval"),
			ResetCalibrationOnDisconnect: cfg.GetBool("calibration.resetOnDisconnect"),
		},
		DemoCfg: glove.DemoConfig{
			SampleInterval:    cfg.GetDuration("demo.sampleInterval"),
			LetterPause:       cfg.GetDuration("demo.letterPause"),
			CompletionTimeout: cfg.GetDuration("demo.completionTimeout"),
		},
		Alphabet:   glove.NewAlphabet(cfg.GetString("alphabet")),
		Classifier: cl,
		Samples:    simulate.New(cfg.GetFloat64("demo.noise")),
		Store:      store,
	}
	defer registry.Close()

	data := &service.Data{}
	data.Ctx = ctx
	data.Port = cfg.GetInt("port")
	data.Registry = registry
	data.WSHandlerGlove = service.NewWSGloveHandler(registry)
	data.WSHandlerState = service.NewWSStateHandler(registry)
	data.Cues = cues

	if mqttURL := cfg.GetString("mqtt.url"); mqttURL != "" {
		lst, err := ingress.StartListener(ctx, ingress.Config{
			URL:      mqttURL,
			ClientID: cfg.GetString("mqtt.clientID"),
			Prefix:   cfg.GetString("mqtt.topicPrefix"),
		}, func(device string) ingress.Sink { return registry.Get(device) })
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't start mqtt listener")
		}
		defer lst.Close()
	}

	doneCh, err := service.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}

	/////////////////////// Waiting for terminate
	waitCh := make(chan os.Signal, 2)
	signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-waitCh:
		goapp.Log.Info().Msg("Got exit signal")
	case <-doneCh:
		goapp.Log.Info().Msg("Service exit")
	}
	cancelFunc()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

var (
	version = "DEV"
)

func printBanner() {
	banner :=
		`
    SIGN GLOVE WRAPPER v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/signspeak/rt-glove-wrapper"))
}
