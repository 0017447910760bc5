package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/mockexam/internal/app"
	"github.com/abhisek/mockexam/internal/config"
	"github.com/abhisek/mockexam/internal/llm"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/quota"
	"github.com/abhisek/mockexam/internal/review"
	"github.com/abhisek/mockexam/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the exam HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MOCKEXAM_ADDR)")
}

// runServer opens the store, builds dependencies, and serves until
// interrupted.
func runServer(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	factory, err := llm.NewFactory(providerConfig(cfg), st.EventRepo())
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}

	creds := cfg.Credentials
	if cfg.Provider == "mock" && len(creds) == 0 {
		creds = []string{"demo"}
	}
	if len(creds) == 0 {
		fmt.Fprintln(os.Stderr, "No API keys configured; set", config.KeyAPIKeys, "or", config.KeyAPIKey)
		fmt.Fprintln(os.Stderr, "Question generation will be unavailable.")
	}
	log.Printf("[Server] provider=%s keys=%d daily_limit=%d batch_size=%d",
		cfg.Provider, len(creds), cfg.DailyLimit, cfg.BatchSize)

	svc := app.New(
		quota.NewGuard(st.UsageRepo()),
		questiongen.New(factory, questiongen.DefaultConfig()),
		review.NewManager(st.ReviewRepo()),
		app.Options{
			Credentials: creds,
			DailyLimit:  cfg.DailyLimit,
			BatchSize:   cfg.BatchSize,
		},
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(svc, server.Config{AccessPassword: cfg.AccessPassword})
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// providerConfig maps settings onto the LLM layer. The mock provider serves
// a fixed demo batch for offline runs.
func providerConfig(cfg config.Config) llm.Config {
	lc := llm.DefaultConfig()
	lc.Provider = cfg.Provider
	if cfg.Provider == "mock" {
		lc.Mock = llm.NewMockProvider(llm.MockResponse{Content: demoBatch()}).Repeat()
	}
	return lc
}

func demoBatch() json.RawMessage {
	type item struct {
		Category    string   `json:"category"`
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Answer      int      `json:"answer"`
		Explanation string   `json:"explanation"`
	}
	batch := []item{
		{
			Category:    questiongen.Categories[0],
			Question:    "Which nerve innervates the deltoid muscle?",
			Options:     []string{"Axillary nerve", "Radial nerve", "Ulnar nerve", "Median nerve", "Musculocutaneous nerve"},
			Answer:      1,
			Explanation: "The axillary nerve (C5-C6) supplies the deltoid and teres minor.",
		},
		{
			Category:    questiongen.Categories[1],
			Question:    "A positive Lachman test suggests injury to which structure?",
			Options:     []string{"Posterior cruciate ligament", "Medial collateral ligament", "Anterior cruciate ligament", "Lateral meniscus", "Patellar tendon"},
			Answer:      3,
			Explanation: "Excess anterior tibial translation at 20-30 degrees of flexion indicates ACL insufficiency.",
		},
		{
			Category:    questiongen.Categories[2],
			Question:    "Which modality uses a frequency of 1 or 3 MHz?",
			Options:     []string{"TENS", "Short-wave diathermy", "Infrared", "Therapeutic ultrasound", "Interferential current"},
			Answer:      4,
			Explanation: "Therapeutic ultrasound is delivered at 1 MHz for deep and 3 MHz for superficial tissue.",
		},
	}
	data, _ := json.Marshal(batch)
	return data
}
