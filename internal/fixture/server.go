package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/shopr/internal/api"
	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/config"
	"github.com/pders01/shopr/internal/debuglog"
)

const shutdownTimeout = 5 * time.Second

// Server answers the tracking and cart endpoints the client talks to.
type Server struct {
	index        *Index
	book         *cart.Book
	trackingPath string
	cartPath     string
	maxQuery     int
}

// New builds a server from fixture data using the paths and page size in cfg.
func New(cfg *config.Config, data *Data) (*Server, error) {
	idx, err := NewIndex(data.Parcels, cfg.Fixture.PageSize)
	if err != nil {
		return nil, err
	}
	return &Server{
		index:        idx,
		book:         cart.NewBook(data.Products...),
		trackingPath: routePath(cfg.API.TrackingPath),
		cartPath:     routePath(cfg.API.CartPath),
		maxQuery:     cfg.Search.MaxQueryLength,
	}, nil
}

func routePath(p string) string {
	return "/" + strings.Trim(strings.TrimSpace(p), "/")
}

func (s *Server) Book() *cart.Book { return s.book }

func (s *Server) Close() error { return s.index.Close() }

// Handler returns the routes of the fixture backend.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.trackingPath, s.handleTracking)
	mux.HandleFunc("GET "+s.cartPath, s.handleCart)
	mux.HandleFunc("POST "+s.cartPath+"/increase", s.handleQuantity(s.book.Increase))
	mux.HandleFunc("POST "+s.cartPath+"/decrease", s.handleQuantity(s.book.Decrease))
	mux.HandleFunc("DELETE "+s.cartPath+"/entries/{id}", s.handleRemove)
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled. ready, when set, is
// called with the bound address once the listener is up.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	debuglog.Infof("fixture server listening on %s", ln.Addr())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	if s.maxQuery > 0 && len([]rune(query)) > s.maxQuery {
		writeError(w, http.StatusBadRequest, "search term too long")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	parcels, err := s.index.Search(query, page)
	if err != nil {
		debuglog.Errorf("tracking search %q page %d: %v", query, page, err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	body := api.ParcelPage{Results: &api.ParcelResults{Data: make([]api.ParcelRecord, 0, len(parcels))}}
	for _, p := range parcels {
		body.Results.Data = append(body.Results.Data, api.RecordFromParcel(p))
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.CartPayload{Entries: s.book.Entries()})
}

func (s *Server) handleQuantity(adjust func(string) (cart.Entry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.QuantityRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&req); err != nil || req.ProductID == "" {
			writeError(w, http.StatusBadRequest, "product_id is required")
			return
		}
		entry, err := adjust(req.ProductID)
		if err != nil {
			writeBookError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.book.Remove(r.PathValue("id")); err != nil {
		writeBookError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeBookError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debuglog.Warnf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorBody{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		debuglog.WithFields(debuglog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debugf("request")
	})
}
