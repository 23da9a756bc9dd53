package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crosscheck-ai/crosscheck/internal/model"
	"github.com/crosscheck-ai/crosscheck/internal/store"
	"github.com/crosscheck-ai/crosscheck/pkg/answer"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verification HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/verify", e.handleVerify)
		r.Get("/v1/verifications", e.handleListVerifications)
		r.Get("/v1/verifications/{id}", e.handleGetVerification)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown. The signal context is already canceled by
		// the time we get here, so draining needs its own deadline.
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(drainCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type verifyRequest struct {
	Query  string `json:"query"`
	Domain string `json:"domain,omitempty"`
	Answer bool   `json:"answer,omitempty"`
}

type verifyResponse struct {
	*model.ConsistencyResult
	ID     string `json:"id,omitempty"`
	Answer string `json:"answer,omitempty"`
}

func (e *env) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	ctx := r.Context()
	tier := e.Pipeline.ClassifyTier(req.Domain, req.Query)
	results := e.Dispatcher.Dispatch(ctx, req.Query, req.Domain, tier)
	res := e.Pipeline.Verify(req.Query, req.Domain, results)

	resp := verifyResponse{ConsistencyResult: res}

	rec, err := e.Store.SaveVerification(ctx, res)
	if err != nil {
		zap.L().Warn("audit save failed", zap.Error(err))
	} else {
		resp.ID = rec.ID
	}

	if req.Answer && e.Drafter != nil {
		draft, err := e.Drafter.Draft(ctx, answer.Request{
			Query:        req.Query,
			VerifiedFact: res.VerifiedFact,
			Instruction:  res.LLMInstruction,
		})
		if err != nil {
			zap.L().Warn("answer draft failed", zap.Error(err))
		} else {
			resp.Answer = draft.Text
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *env) handleListVerifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	records, err := e.Store.ListVerifications(r.Context(), store.VerificationFilter{
		Domain:     q.Get("domain"),
		Tier:       model.Tier(q.Get("tier")),
		Confidence: model.ConfidenceLevel(q.Get("confidence")),
		Limit:      limit,
	})
	if err != nil {
		zap.L().Error("list verifications failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (e *env) handleGetVerification(w http.ResponseWriter, r *http.Request) {
	rec, err := e.Store.GetVerification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "verification not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
