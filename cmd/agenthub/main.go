// Command agenthub serves the multi-agent chat gateway: the meeting room
// booking agent, the general assistant and the research workflow agent
// behind a single HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hallwayhq/agenthub/agents/assistant"
	"github.com/hallwayhq/agenthub/agents/meetingroom"
	"github.com/hallwayhq/agenthub/agents/research"
	"github.com/hallwayhq/agenthub/config"
	"github.com/hallwayhq/agenthub/dispatch"
	"github.com/hallwayhq/agenthub/eventlog"
	"github.com/hallwayhq/agenthub/httpapi"
	"github.com/hallwayhq/agenthub/identity"
	"github.com/hallwayhq/agenthub/logging"
	"github.com/hallwayhq/agenthub/model"
	anthropicmodel "github.com/hallwayhq/agenthub/model/anthropic"
	openaimodel "github.com/hallwayhq/agenthub/model/openai"
	"github.com/hallwayhq/agenthub/registry"
	"github.com/hallwayhq/agenthub/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "agenthub:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	trail := eventlog.New(logger)

	llm, err := buildModel(cfg)
	if err != nil {
		return err
	}
	logger.Info().Str("provider", cfg.ModelProvider).Str("model", llm.Info().Name).Msg("model ready")

	reg := registry.New()
	if err := reg.Register(meetingroom.NewDescriptor(llm, meetingroom.NewStore(), trail)); err != nil {
		return err
	}
	if err := reg.Register(assistant.NewDescriptor(llm, trail)); err != nil {
		return err
	}
	if err := reg.Register(research.NewDescriptor(llm, trail)); err != nil {
		return err
	}

	dispatcher := dispatch.New(reg, session.NewInMemoryStore(), identity.NewInMemoryDirectory(),
		func(o *dispatch.Options) {
			o.DirectoryTimeout = cfg.DirectoryTimeout
			o.MaxModelCalls = cfg.MaxModelCalls
			o.Logger = logger
			o.EventLog = trail
		})

	server := httpapi.NewServer(cfg.HTTPAddr, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case config.ProviderOpenAI:
		return openaimodel.NewModel(cfg.OpenAIAPIKey), nil
	case config.ProviderAzure:
		return openaimodel.NewAzureModel(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIAPIKey, cfg.AzureOpenAIDeployment), nil
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.AnthropicAPIKey
		}), nil
	case config.ProviderMock:
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}
