// Package netdebug streams a running console's framebuffer over a
// websocket, so a headless or CI run can be inspected from a browser
// without attaching a display driver. The serial debug-log tap is not
// streamed.
package netdebug

import (
	"encoding/binary"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixelclock/gomeboy/internal/gameboy"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server streams frames from gb to any websocket client connecting to /.
type Server struct {
	gb *gameboy.GameBoy
}

// New returns a Server bound to gb.
func New(gb *gameboy.GameBoy) *Server {
	return &Server{gb: gb}
}

// ListenAndServe blocks serving websocket connections on addr.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	buf := make([]byte, gameboy.ScreenWidth*gameboy.ScreenHeight*4)
	for range ticker.C {
		frame := s.gb.PPU.Framebuffer()
		for i, px := range frame {
			binary.LittleEndian.PutUint32(buf[i*4:], px)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
			return
		}
	}
}
