package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"emailrag/internal/api"
	"emailrag/internal/chatbot"
	"emailrag/internal/config"
	"emailrag/internal/domain"
	"emailrag/internal/embedding/hashing"
	embopenai "emailrag/internal/embedding/openai"
	genopenai "emailrag/internal/generation/openai"
	"emailrag/internal/tui"
)

var (
	cfgPath string
	verbose bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "emailrag",
		Short: "Answer emails using retrieval over your own documents",
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/emailrag/config.yaml if not provided)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(ingestCmd(), askCmd(), chatCmd(), statsCmd(), serveCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest file1.txt [file2.json ...]",
		Short: "Chunk, embed, and index documents into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(false)
			if err != nil {
				return err
			}
			for _, path := range args {
				ids, err := svc.UploadDocument(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
				fmt.Printf("%s: %d chunks\n", path, len(ids))
			}
			return nil
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask \"email or question text\"",
		Short: "Answer a single email from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(true)
			if err != nil {
				return err
			}
			fmt.Println(svc.Answer(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat over the indexed documents",
		RunE: func(*cobra.Command, []string) error {
			svc, err := buildService(true)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.New(svc)).Run()
			return err
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE: func(*cobra.Command, []string) error {
			svc, err := buildService(false)
			if err != nil {
				return err
			}
			st := svc.Stats()
			fmt.Printf("Chunks:     %d\n", st.TotalChunks)
			fmt.Printf("Documents:  %d\n", st.TotalDocuments)
			fmt.Printf("Dimension:  %d\n", st.EmbeddingDimension)
			fmt.Printf("Memory:     %.2f MB\n", float64(st.MemoryBytes)/(1024*1024))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := buildServiceFromConfig(cfg, true)
			if err != nil {
				return err
			}
			log.Info("serving HTTP API", "addr", cfg.Server.Addr)
			return api.New(svc).Run(cfg.Server.Addr)
		},
	}
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, path, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		log.Debug("config loaded", "path", path)
		return cfg, nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func buildService(withGenerator bool) (*chatbot.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildServiceFromConfig(cfg, withGenerator)
}

func buildServiceFromConfig(cfg *config.AppConfig, withGenerator bool) (*chatbot.Service, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	// Generation is only wired for commands that answer; ingest and stats
	// work offline without an API key.
	var generator domain.Generator
	if withGenerator {
		generator, err = buildGenerator(cfg)
		if err != nil {
			return nil, err
		}
	}

	return chatbot.New(embedder, generator, chatbot.Options{
		StorePath:     cfg.Store.Path,
		ChunkSize:     cfg.Chunker.ChunkSize,
		Overlap:       cfg.Chunker.Overlap,
		TopK:          cfg.Retrieval.TopK,
		MinSimilarity: cfg.Retrieval.MinSimilarity,
		MaxTokens:     cfg.Generator.MaxTokens,
		Temperature:   cfg.Generator.Temperature,
	}), nil
}

func buildEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "hashing", "":
		return hashing.NewEmbedder(cfg.Embedder.Dimension), nil
	case "openai":
		oc := cfg.Embedder.OpenAI
		if oc == nil {
			oc = &config.OpenAIConfig{}
		}
		return embopenai.NewClient(embopenai.Config{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: keyEnvOrDefault(oc.APIKeyEnv),
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func buildGenerator(cfg *config.AppConfig) (domain.Generator, error) {
	switch cfg.Generator.Type {
	case "openai", "":
		oc := cfg.Generator.OpenAI
		if oc == nil {
			oc = &config.OpenAIConfig{}
		}
		return genopenai.NewClient(genopenai.Config{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: keyEnvOrDefault(oc.APIKeyEnv),
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Generator.Type)
	}
}

func keyEnvOrDefault(env string) string {
	if env == "" {
		return "OPENAI_API_KEY"
	}
	return env
}
