package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ratekit/qctl/pkg/data"
	"github.com/ratekit/qctl/pkg/quote"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	serverCmd = &cli.Command{
		Name:            "server",
		Aliases:         []string{"serve"},
		Usage:           "Start local HTTP quote API",
		HideHelpCommand: true,
		Action:          cmdStartServer,
		Flags:           []cli.Flag{portFlag},
	}
)

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	e := newEngine(cmd)
	address := fmt.Sprintf("127.0.0.1:%d", cmd.Int(portFlag.Name))

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(e, getConfig(cmd).Store),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server started", "address", "http://"+address)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func makeRouter(e *quote.Engine, store *data.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler(store))

	// Data API
	mux.HandleFunc("GET /data/rates", ratesAPIHandler(e))
	mux.HandleFunc("GET /data/top", topAPIHandler(e))
	mux.HandleFunc("GET /data/score", scoreAPIHandler(e))

	return mux
}

func healthHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeStatus := "ok"
		if store == nil || store.DB() == nil {
			storeStatus = "unavailable"
		} else if err := store.DB().PingContext(r.Context()); err != nil {
			slog.Debug("store ping failed", "error", err)
			storeStatus = "unavailable"
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"store":   storeStatus,
			"version": version,
		})
	}
}

func ratesAPIHandler(e *quote.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := shipmentFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		quotes := e.FetchAndNormalize(r.Context(), spec)

		out := make([]ratedQuote, 0, len(quotes))
		for _, q := range quotes {
			out = append(out, ratedQuote{
				Quote:     q,
				BaseCost:  e.ComputeBase(q, spec.WeightLbs),
				TotalCost: e.ComputeTotal(q, spec.WeightLbs),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func topAPIHandler(e *quote.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := shipmentFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		ranked := e.RankByWeightFit(e.FetchAndNormalize(r.Context(), spec), spec.WeightLbs)
		writeJSON(w, http.StatusOK, ranked)
	}
}

func scoreAPIHandler(e *quote.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := shipmentFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		policy, err := policyFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		ranked := e.RankComposite(e.FetchAndNormalize(r.Context(), spec), spec.WeightLbs, policy)
		writeJSON(w, http.StatusOK, ranked)
	}
}

func shipmentFromQuery(r *http.Request) (quote.ShipmentSpec, error) {
	q := r.URL.Query()

	weight, err := strconv.ParseFloat(q.Get("weight"), 64)
	if err != nil {
		return quote.ShipmentSpec{}, errors.New("weight query parameter required (pounds)")
	}

	spec := quote.ShipmentSpec{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		WeightLbs:   weight,
	}
	if m := q.Get("mode"); m != "" {
		spec.Mode = quote.NormalizeMode(m)
	}

	if err := spec.Validate(); err != nil {
		return spec, err
	}
	return spec, nil
}

func policyFromQuery(r *http.Request) (*quote.ScoringPolicy, error) {
	q := r.URL.Query()

	var o quote.WeightOverrides
	for key, target := range map[string]**float64{
		"cost":        &o.Cost,
		"time":        &o.Time,
		"reliability": &o.Reliability,
		"risk":        &o.Risk,
	} {
		v := q.Get("weight_" + key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight_%s value: %q", key, v)
		}
		*target = &f
	}

	if o == (quote.WeightOverrides{}) {
		return nil, nil
	}
	return &quote.ScoringPolicy{Weights: &o}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
