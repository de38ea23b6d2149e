// Package remote lets a gesture classifier running in another process push
// its results to an installation over a WebSocket. The classifier owns the
// camera; the installation only sees ranked categories.
//
// Each text message is one classification:
//
//	{"timestamp": 1712, "hands": [[{"categoryName": "Closed_Fist", "score": 0.93}]]}
package remote

import (
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/evergreen"
)

// DefaultMaxAge is how long a classification stays current when no newer
// one arrives.
const DefaultMaxAge = 500 * time.Millisecond

// Result is one ranked category as the classifier reports it.
type Result struct {
	CategoryName string  `json:"categoryName"`
	Score        float32 `json:"score"`
}

// Message is the JSON payload a client sends.
type Message struct {
	Timestamp int64      `json:"timestamp"`
	Hands     [][]Result `json:"hands"`
}

// Recognizer is an evergreen.Recognizer fed by WebSocket clients. It is
// also an http.Handler: mount it on any route and point the classifier at
// it. The most recent message from any client wins.
type Recognizer struct {
	// MaxAge expires a classification that has not been refreshed, so a
	// stalled client reads as no hand. Zero uses DefaultMaxAge.
	MaxAge time.Duration
	// Debug logs connection and decode problems to stderr.
	Debug bool

	upgrader websocket.Upgrader
	now      func() time.Time

	mu       sync.Mutex
	hands    [][]evergreen.Category
	received time.Time
	clients  int
}

// NewRecognizer returns a Recognizer that accepts connections from any
// origin.
func NewRecognizer() *Recognizer {
	return &Recognizer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// ServeHTTP upgrades the request and reads messages until the client
// disconnects.
func (r *Recognizer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		r.logf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	r.mu.Lock()
	r.clients++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.clients--
		r.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.logf("read: %v", err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			r.logf("decode: %v", err)
			continue
		}
		r.store(msg)
	}
}

func (r *Recognizer) store(msg Message) {
	hands := make([][]evergreen.Category, len(msg.Hands))
	for i, h := range msg.Hands {
		hands[i] = make([]evergreen.Category, len(h))
		for j, c := range h {
			hands[i][j] = evergreen.Category{Name: c.CategoryName, Score: c.Score}
		}
	}
	r.mu.Lock()
	r.hands = hands
	r.received = r.now()
	r.mu.Unlock()
}

// Recognize returns the latest pushed classification. The frame is ignored.
// A classification older than MaxAge yields no hands.
func (r *Recognizer) Recognize(_ image.Image, _ int64) ([][]evergreen.Category, error) {
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hands == nil || r.now().Sub(r.received) > maxAge {
		return nil, nil
	}
	return r.hands, nil
}

// Clients returns the number of connected classifiers.
func (r *Recognizer) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients
}

// Source returns an evergreen.FrameSource that is ready while at least one
// classifier is connected. It carries no pixels.
func (r *Recognizer) Source() evergreen.FrameSource {
	return connected{r}
}

type connected struct{ r *Recognizer }

func (c connected) Ready() bool        { return c.r.Clients() > 0 }
func (c connected) Frame() image.Image { return nil }

func (r *Recognizer) logf(format string, args ...any) {
	if r.Debug {
		_, _ = fmt.Fprintf(os.Stderr, "[evergreen] remote: "+format+"\n", args...)
	}
}

// Listen serves r at path on addr in a background goroutine and returns the
// server so the caller can shut it down.
func Listen(addr, path string, r *Recognizer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, r)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			_, _ = fmt.Fprintf(os.Stderr, "[evergreen] remote: %v\n", err)
		}
	}()
	return srv
}
