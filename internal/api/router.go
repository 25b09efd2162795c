package api

import (
	"net/http"
	"time"

	_ "github.com/AlexZinkM/neutaro-wallet/docs"
	"github.com/AlexZinkM/neutaro-wallet/internal/handler"

	log "github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(neutaroHandler *handler.NeutaroHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Neutaro endpoints
	mux.HandleFunc("/neutaro/generate", neutaroHandler.Generate)
	mux.HandleFunc("/neutaro/balance", neutaroHandler.GetBalance)
	mux.HandleFunc("/neutaro/receive", neutaroHandler.Receive)
	mux.HandleFunc("/neutaro/transactions", neutaroHandler.TransactionHistory)
	mux.HandleFunc("/neutaro/pay", neutaroHandler.Pay)

	return logRequests(mux)
}

// logRequests logs method, path, status and duration of every request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
