package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"CoinScout/internal/domain/models"
	drepo "CoinScout/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a MarketStream backed by the Binance all-market
// mini-ticker WebSocket feed.
type Stream struct {
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	done      chan struct{} // closed when the current connection is torn down
}

// NewStream creates a new Binance MarketStream.
func NewStream(websocketURL string, reconnectDelay, pingInterval time.Duration) drepo.MarketStream {
	return &Stream{
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.done = make(chan struct{})
	s.mu.Unlock()
	log.Printf("binance stream: connected")
	return nil
}

// Subscribe subscribes to the all-market mini-ticker stream. One
// subscription covers the whole universe; consumers filter by symbol.
func (s *Stream) Subscribe(ctx context.Context) error {
	s.mu.Lock()
	conn, connected := s.conn, s.connected
	s.mu.Unlock()
	if conn == nil || !connected {
		return fmt.Errorf("binance stream not connected")
	}
	msg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": []string{"!miniTicker@arr"},
		"id":     1,
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe mini tickers: %w", err)
	}
	log.Printf("binance stream: subscribed !miniTicker@arr")
	return nil
}

type miniTicker struct {
	Event  string `json:"e"`
	Time   int64  `json:"E"` // ms
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Volume string `json:"v"`
}

// pingWriter is the slice of *websocket.Conn the keepalive loop uses.
type pingWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Read streams Tick events and errors for the current connection. The
// keepalive and read goroutines hold the connection they started with
// and stop when it is closed, so a reconnect never leaves two writers
// on one socket.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	s.mu.Lock()
	conn, done := s.conn, s.done
	s.mu.Unlock()

	if conn == nil || done == nil {
		errs <- fmt.Errorf("binance stream not connected")
		close(ticks)
		close(errs)
		return ticks, errs
	}

	go s.keepalive(ctx, conn, done)

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("binance read: %w", err)
				return
			}
			var events []miniTicker
			if err := json.Unmarshal(b, &events); err != nil {
				// subscription acks and other non-array frames
				continue
			}
			for _, e := range events {
				if e.Event != "24hrMiniTicker" {
					continue
				}
				tick, err := e.toTick()
				if err != nil {
					continue
				}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

// keepalive pings conn until done is closed. Exactly one keepalive loop
// exists per connection; Close ends it before any new connection can be
// established.
func (s *Stream) keepalive(ctx context.Context, conn pingWriter, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			_ = conn.WriteMessage(websocket.PingMessage, nil)
		}
	}
}

func (e miniTicker) toTick() (*models.Tick, error) {
	price, err := strconv.ParseFloat(e.Close, 64)
	if err != nil {
		return nil, err
	}
	volume, err := strconv.ParseFloat(e.Volume, 64)
	if err != nil {
		return nil, err
	}
	return &models.Tick{
		Symbol:    e.Symbol,
		Timestamp: time.UnixMilli(e.Time).UTC(),
		Price:     price,
		Volume:    volume,
	}, nil
}

// Reconnect closes and reconnects.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close tears down the current connection. Idempotent.
func (s *Stream) Close() error {
	s.mu.Lock()
	s.connected = false
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
