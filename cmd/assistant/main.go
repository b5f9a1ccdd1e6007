package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
	"github.com/katakuxiko/rag-assistant/internal/model"
	"github.com/katakuxiko/rag-assistant/internal/service"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	code := flag.Bool("code", false, "treat the query as a code generation request")
	lang := flag.String("lang", "", "target language for -code")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		log.Fatal("usage: assistant [flags] <query>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// No retriever is wired here: the retrieval stack runs as a separate
	// service and callers embed this module with their own Retriever.
	responder := service.NewResponder(cfg, log)
	assistant := service.NewAssistant(nil, responder, cfg, log)

	ctx := context.Background()
	var res model.AskResult
	if *code {
		res = assistant.Code(ctx, query, *lang)
	} else {
		res = assistant.Ask(ctx, query)
	}
	fmt.Println(res.Answer)
}
