package service

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/gorilla/websocket"
)

type data struct {
	t   int
	msg []byte
}

// readWebSocket pumps inbound messages into a channel until the connection
// closes or the context ends. Delivery is paced to roughly the glove sample
// interval.
func readWebSocket(ctx context.Context, in *websocket.Conn) <-chan data {
	resCh := make(chan data)
	go func() {
		defer close(resCh)
		defer goapp.Log.Debug().Msg("read routine ended")
		for {
			mType, message, err := in.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) ||
					errors.Is(err, net.ErrClosed) {
					goapp.Log.Info().Msg("connection closed")
					return
				}
				goapp.Log.Error().Err(err).Send()
				return
			}
			msg := data{t: mType, msg: message}

			select {
			case resCh <- msg:
				timer := time.NewTimer(20 * time.Millisecond)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return resCh
}
