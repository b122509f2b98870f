package http

import (
	"net/http"

	"trivia-room-service/internal/metrics"

	"github.com/julienschmidt/httprouter"
)

// NewRouter mounts every HTTP route the service exposes.
func NewRouter(ws *WSHandler, questions *QuestionsHandler, qr QRHandler, m *metrics.Metrics) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if ws != nil {
		router.HandlerFunc(http.MethodGet, "/ws", ws.ServeWS)
	}
	router.Handler(http.MethodGet, "/metrics", m.Handler())
	router.GET("/rooms/:code/qr", qr.ServeHTTP)

	if questions != nil {
		router.GET("/api/questions", questions.List)
		router.POST("/api/questions", questions.Create)
		router.GET("/api/questions/:id", questions.Get)
		router.PUT("/api/questions/:id", questions.Update)
		router.DELETE("/api/questions/:id", questions.Delete)
	}
	return router
}
