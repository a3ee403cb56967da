package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/websocket"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/feedback"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Data keeps data required for service work
type Data struct {
	Port           int
	Registry       *Registry
	WSHandlerGlove *WSGloveHandler
	WSHandlerState *WSStateHandler
	Cues           *feedback.Cues
	Ctx            context.Context
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) (<-chan struct{}, error) {
	goapp.Log.Info().Msgf("Starting glove service at %d", data.Port)
	if err := validate(data); err != nil {
		return nil, err
	}

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	res := make(chan struct{}, 1)
	go func() {
		defer close(res)
		if err := gracehttp.Serve(e.Server); err != nil {
			goapp.Log.Error().Err(err).Msg("can't start web server")
		}
		goapp.Log.Info().Msg("exit http routine")
	}()
	return res, nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("glove", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	promMdlw.Use(e)

	e.GET("/live", live(data))
	e.GET("/client/ws/glove", subscribe(data, data.WSHandlerGlove))
	e.GET("/client/ws/state", subscribe(data, data.WSHandlerState))
	e.GET("/state/:device", state(data))
	e.POST("/demo", demo(data))
	e.GET("/cue/:name", cue(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func state(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		device := c.Param("device")
		if device == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no device")
		}
		return c.JSON(http.StatusOK, data.Registry.Get(device).Ctrl.Snapshot())
	}
}

func demo(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var req api.DemoRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "can't decode request")
		}
		if req.Device == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no device")
		}
		if req.Word == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no word")
		}
		sess := data.Registry.Get(req.Device)
		playing, err := sess.Demo.Start(data.Ctx, req.Word)
		if err != nil {
			if errors.Is(err, glove.ErrDemoRunning) {
				return echo.NewHTTPError(http.StatusConflict, err.Error())
			}
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, &api.DemoRequest{Device: req.Device, Word: playing})
	}
}

func cue(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		b, err := data.Cues.Get(c.Param("name"))
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return c.Blob(http.StatusOK, "audio/wav", b)
	}
}

func validate(data *Data) error {
	if data.Registry == nil {
		return fmt.Errorf("no Registry")
	}
	if data.WSHandlerGlove == nil {
		return fmt.Errorf("no WSHandlerGlove")
	}
	if data.WSHandlerState == nil {
		return fmt.Errorf("no WSHandlerState")
	}
	if data.Cues == nil {
		return fmt.Errorf("no Cues")
	}
	return nil
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

type wsHandler interface {
	HandleConnection(ctx context.Context, conn *websocket.Conn, req *http.Request) error
}

func subscribe(data *Data, handler wsHandler) func(echo.Context) error {
	return func(c echo.Context) error {
		ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return err
		}
		defer ws.Close()

		return handler.HandleConnection(data.Ctx, ws, c.Request())
	}
}
