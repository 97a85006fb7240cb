package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"claimvault/config"
	"claimvault/native/token"
	"claimvault/native/vault"
	"claimvault/observability/logging"
	"claimvault/observability/metrics"
	"claimvault/state"
	"claimvault/storage"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "vault.toml", "path to vaultd config")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("VAULT_ENV"))
	logger := logging.Setup("vaultd", env)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "vaultstate"))
	if err != nil {
		log.Fatalf("open state database: %v", err)
	}
	defer db.Close()

	engine, err := buildEngine(cfg, db, logger)
	if err != nil {
		log.Fatalf("configure vault engine: %v", err)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/v1/vault", func(r chi.Router) {
		r.Get("/status", statusHandler(engine))
		r.Get("/dispute", disputeHandler(engine))
		r.Get("/rewards/{address}", rewardsHandler(engine))
	})

	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("vaultd listening", "address", cfg.ListenAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func buildEngine(cfg *config.Config, db storage.Database, logger *slog.Logger) (*vault.Engine, error) {
	vaultAddr, err := config.ParseAddress(cfg.VaultAddress)
	if err != nil {
		return nil, err
	}
	baseGenesis, err := config.ParseGenesis(cfg.BaseGenesis)
	if err != nil {
		return nil, err
	}
	governanceGenesis, err := config.ParseGenesis(cfg.GovernanceGenesis)
	if err != nil {
		return nil, err
	}

	base := token.NewLedger("BASE", baseGenesis)
	governance := token.NewLedger("GOV", governanceGenesis)
	cToken := token.NewClaim("CVC", vaultAddr)
	iToken := token.NewClaim("CVI", vaultAddr)

	manager := state.NewManager(db)
	engine := vault.NewEngine()
	engine.SetState(manager)
	engine.SetAddress(vaultAddr)
	engine.SetAssets(base, governance)
	engine.SetClaimTokens(cToken, iToken)
	engine.SetCondition(cfg.Condition)
	engine.SetParams(cfg.Params())
	engine.SetEmitter(metrics.NewEmitter(logging.NewEventLogger(logger)))

	accrued, _, err := manager.FeeTotals()
	if err != nil {
		return nil, err
	}
	total, _ := new(big.Float).SetInt(accrued).Float64()
	metrics.Vault().SetFeesAccrued(total)
	return engine, nil
}

type statusResponse struct {
	Locked        bool   `json:"locked"`
	Condition     string `json:"condition"`
	AccruedFees   string `json:"accruedFees"`
	RemainingFees string `json:"remainingFees"`
}

func statusHandler(engine *vault.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locked, err := engine.Locked()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		accrued, remaining, err := engine.FeeTotals()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, statusResponse{
			Locked:        locked,
			Condition:     engine.Condition(),
			AccruedFees:   accrued.String(),
			RemainingFees: remaining.String(),
		})
	}
}

type disputeResponse struct {
	Initiator        string `json:"initiator"`
	InitiationAmount string `json:"initiationAmount"`
	EndTime          int64  `json:"endTime"`
	AcceptWeight     string `json:"acceptWeight"`
	DeclineWeight    string `json:"declineWeight"`
	Open             bool   `json:"open"`
}

func disputeHandler(engine *vault.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dispute, ok, err := engine.DisputeSnapshot()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			http.Error(w, "no dispute recorded", http.StatusNotFound)
			return
		}
		writeJSON(w, disputeResponse{
			Initiator:        "0x" + hexAddress(dispute.Initiator),
			InitiationAmount: dispute.InitiationAmount.String(),
			EndTime:          dispute.EndTime,
			AcceptWeight:     dispute.AcceptWeight.String(),
			DeclineWeight:    dispute.DeclineWeight.String(),
			Open:             dispute.Open,
		})
	}
}

type rewardsResponse struct {
	BaseReward       string `json:"baseReward"`
	GovernanceReward string `json:"governanceReward"`
	OwedFees         string `json:"owedFees"`
}

func rewardsHandler(engine *vault.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := config.ParseAddress(chi.URLParam(r, "address"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		base, governance, err := engine.RewardBalances(addr)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		owed, err := engine.OwedFees(addr)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, rewardsResponse{
			BaseReward:       base.String(),
			GovernanceReward: governance.String(),
			OwedFees:         owed.String(),
		})
	}
}

func hexAddress(addr [20]byte) string {
	return hex.EncodeToString(addr[:])
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}
