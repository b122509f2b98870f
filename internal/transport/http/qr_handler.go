package http

import (
	"net/http"
	"net/url"

	"trivia-room-service/internal/app"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 320

// QRHandler renders a PNG QR code pointing at a room's join link.
type QRHandler struct {
	// JoinURL is the public page players open; the room code is appended as ?room=.
	// Empty means the request's own host.
	JoinURL string
}

func (h QRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := app.NormalizeRoomCode(ps.ByName("code"))
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(h.link(r, code), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h QRHandler) link(r *http.Request, code string) string {
	base := h.JoinURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host + "/"
	}
	return base + "?" + url.Values{"room": {code}}.Encode()
}
