package controllers

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamPongTimeout  = 60 * time.Second
	streamPingInterval = 30 * time.Second
	streamReadLimit    = 512
)

// StreamParams wires the live notification socket.
type StreamParams struct {
	Notifications  notifications.Service
	Simulator      *notifications.Simulator
	Metrics        *metrics.NotificationMetrics
	AllowedOrigins []string
	Logger         *logger.Logger
}

type streamFrame struct {
	Type         string                       `json:"type"`
	Notification *notifications.Notification  `json:"notification,omitempty"`
	Items        []notifications.Notification `json:"items,omitempty"`
	UnreadCount  *int                         `json:"unreadCount,omitempty"`
}

// NotificationStream upgrades to a WebSocket and pushes the caller's alerts as
// they are published. The first frame is a snapshot of the current list. When
// a simulator is configured it runs for the life of the connection.
func NotificationStream(params StreamParams) http.HandlerFunc {
	logg := params.Logger
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(params.AllowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// subscribe before the snapshot so nothing published in between is lost
		events, unsubscribe := params.Notifications.Subscribe(userID)
		defer unsubscribe()

		snapshot, err := params.Notifications.List(r.Context(), userID, notifications.ListParams{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// the upgrader has already written the HTTP error
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "notification stream upgrade failed")
			return
		}
		defer conn.Close()

		params.Metrics.StreamOpened()
		defer params.Metrics.StreamClosed()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		if params.Simulator != nil {
			go params.Simulator.Run(ctx, userID)
		}
		go readUntilClosed(conn, cancel)

		logg.Info(ctx, "notification stream opened")
		err = writeStream(ctx, conn, snapshot, events)
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "notification stream write failed")
		}
		logg.Info(ctx, "notification stream closed")
	}
}

func writeStream(ctx context.Context, conn *websocket.Conn, snapshot *notifications.ListResult, events <-chan notifications.Notification) error {
	unread := snapshot.UnreadCount
	if err := writeFrame(conn, streamFrame{Type: "snapshot", Items: snapshot.Items, UnreadCount: &unread}); err != nil {
		return err
	}

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(streamWriteTimeout)
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return nil
		case n, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeFrame(conn, streamFrame{Type: "notification", Notification: &n}); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout)); err != nil {
				return err
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, frame streamFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}

// readUntilClosed drains client frames so pongs and close messages are
// processed, and cancels the stream once the peer goes away.
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if len(allowed) == 0 {
			return strings.EqualFold(u.Host, r.Host) || strings.EqualFold(u.Hostname(), "localhost")
		}
		return slices.ContainsFunc(allowed, func(a string) bool {
			return strings.EqualFold(strings.TrimRight(a, "/"), origin)
		})
	}
}
