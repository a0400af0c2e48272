package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/insight"
	"github.com/amonks/tasktrack/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference task backend",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveAddr       string
	serveDataFile   string
	serveLegacy     bool
	serveOllamaHost string
	serveModel      string
	serveNoAI       bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config or localhost:8000)")
	serveCmd.Flags().StringVar(&serveDataFile, "data-file", "", "Persist tasks to this JSONL file (default: memory only)")
	serveCmd.Flags().BoolVar(&serveLegacy, "legacy", false, "Emit legacy field names (_id, pending)")
	serveCmd.Flags().StringVar(&serveOllamaHost, "ollama-host", "", "Ollama base URL for /ai/suggest (default OLLAMA_HOST)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Ollama model for /ai/suggest")
	serveCmd.Flags().BoolVar(&serveNoAI, "no-ai", false, "Disable /ai/suggest")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "tt serve: ", log.LstdFlags)

	addr := cfg.ServeAddr()
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}
	dataFile := cfg.Serve.DataFile
	if cmd.Flags().Changed("data-file") {
		dataFile = serveDataFile
	}
	legacy := cfg.Serve.Legacy
	if cmd.Flags().Changed("legacy") {
		legacy = serveLegacy
	}

	store, err := server.OpenStore(server.StoreOptions{DataFile: dataFile})
	if err != nil {
		return err
	}

	var suggester insight.Suggester
	if !serveNoAI {
		host := cfg.Suggest.OllamaHost
		if cmd.Flags().Changed("ollama-host") {
			host = serveOllamaHost
		}
		model := cfg.Suggest.Model
		if cmd.Flags().Changed("model") {
			model = serveModel
		}
		ollama, err := server.NewOllamaSuggester(server.OllamaOptions{Host: host, Model: model})
		if err != nil {
			logger.Printf("suggestions disabled: %v", err)
		} else {
			suggester = ollama
		}
	}

	srv, err := server.New(server.Options{
		Store:     store,
		Suggester: suggester,
		Legacy:    legacy,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	return srv.Serve(addr)
}
