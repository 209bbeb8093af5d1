package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"FuncChat/Web"
	"FuncChat/chatManager"
	"FuncChat/llm"
	"FuncChat/misc"
	"FuncChat/toolCalling"
)

func main() {
	if missing := misc.CheckRequiredConfig(); len(missing) > 0 {
		log.Fatalf("missing required config: %s", strings.Join(missing, ", "))
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		BaseURL:     misc.GetConfigValueRequired("main_setting", "BASE_URL"),
		APIKey:      misc.GetConfigValueRequired("main_setting", "OPENAI_API_KEY"),
		Model:       misc.GetConfigValueRequired("main_setting", "MODEL"),
		MaxTokens:   misc.GetMaxTokens(),
		HTTPTimeout: time.Duration(misc.GetHTTPTimeout()) * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}

	tools := toolCalling.NewToolManager()
	tools.Register(toolCalling.NewWeatherTool())

	orch := chatManager.NewOrchestrator(client, tools, misc.GetQueueDepth())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	orch.Start(ctx)

	addr := misc.GetConfigValueDefault("web", "LISTEN_ADDR", "127.0.0.1:8310")
	misc.Info("web", "listening on "+addr, nil)
	if err := Web.NewServer(orch).StartWebServer(ctx, addr); err != nil {
		misc.Error("web", err.Error(), nil)
	}
	<-orch.Done()
}
