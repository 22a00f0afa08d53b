// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/poiesic/recall"
	"github.com/poiesic/recall/agent"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/status"
	"github.com/poiesic/recall/vectorstore"
	"github.com/poiesic/recall/vectorstore/memory"
	"github.com/poiesic/recall/vectorstore/pgvector"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "recall",
		Usage:  "Conversational knowledge assistant over a private knowledge base",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Ask a question against the knowledge base",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to BadgerDB chat history directory",
						Value: "./recall-db",
					},
					&cli.StringFlag{
						Name:    "conversation",
						Aliases: []string{"c"},
						Usage:   "Conversation identifier",
						Value:   "default",
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Add a document, web page, image, or note to the knowledge base",
				Action: ingestCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to BadgerDB chat history directory",
						Value: "./recall-db",
					},
					&cli.StringFlag{
						Name:    "conversation",
						Aliases: []string{"c"},
						Usage:   "Conversation identifier",
						Value:   "default",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to a document file to ingest",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Web page URL to ingest",
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Path to an image file to ingest",
					},
					&cli.StringFlag{
						Name:  "note",
						Usage: "Raw text note to ingest",
					},
				),
			},
			{
				Name:      "seed",
				Usage:     "Ingest every text/markdown file in a directory",
				ArgsUsage: "<directory>",
				Action:    seedCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:      "search",
				Usage:     "Run a raw similarity search (debugging aid)",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags:     serviceFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serviceFlags are the AI, vector index, and registry flags shared by every
// command. Values can come from the environment (loaded via .env).
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "https://api.openai.com/v1",
			EnvVars: []string{"RECALL_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI services",
			EnvVars: []string{"RECALL_API_KEY", "OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "text-embedding-3-small",
			EnvVars: []string{"RECALL_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat completion model name",
			Value:   "gpt-4o-mini",
			EnvVars: []string{"RECALL_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "vision-model",
			Usage:   "Vision-capable model name for image description",
			Value:   "gpt-4o",
			EnvVars: []string{"RECALL_VISION_MODEL"},
		},
		&cli.IntFlag{
			Name:    "dimensions",
			Usage:   "Embedding vector dimensionality",
			Value:   1536,
			EnvVars: []string{"RECALL_DIMENSIONS"},
		},
		&cli.StringFlag{
			Name:    "postgres-dsn",
			Usage:   "Postgres DSN for the pgvector index (in-memory index if unset)",
			EnvVars: []string{"RECALL_POSTGRES_DSN"},
		},
		&cli.StringFlag{
			Name:    "table",
			Usage:   "Postgres table name for the vector index",
			Value:   "knowledge_chunks",
			EnvVars: []string{"RECALL_TABLE"},
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address for the task status registry (in-memory registry if unset)",
			EnvVars: []string{"RECALL_REDIS_ADDR"},
		},
	}
}

// buildAssistant assembles the assistant from the service flags. An empty
// historyPath keeps chat history in memory (commands that never touch it).
func buildAssistant(ctx context.Context, c *cli.Context, historyPath string) (*recall.Assistant, func(), error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithToken(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithVisionModel(c.String("vision-model")),
		ai.WithEmbeddingDimensions(c.Int("dimensions")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	var index vectorstore.Index
	if dsn := c.String("postgres-dsn"); dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		index, err = pgvector.NewStore(pool, c.String("table"))
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to create vector index: %w", err)
		}
	} else {
		slog.Warn("no postgres-dsn configured, using ephemeral in-memory index")
		index = memory.NewIndex()
	}

	if err := index.EnsureReady(ctx, cfg.EmbeddingDimensions); err != nil {
		index.Close()
		return nil, nil, fmt.Errorf("failed to prepare vector index: %w", err)
	}

	var registry status.Registry
	var redisClient *redis.Client
	if addr := c.String("redis-addr"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
		registry = status.NewRedis(redisClient)
	} else {
		registry = status.NewMemory()
	}

	assistant, err := recall.NewAssistant(historyPath,
		recall.WithAIConfig(cfg),
		recall.WithIndex(index),
		recall.WithRegistry(registry),
	)
	if err != nil {
		index.Close()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to assemble assistant: %w", err)
	}

	cleanup := func() {
		assistant.Close()
		if redisClient != nil {
			redisClient.Close()
		}
	}
	return assistant, cleanup, nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ctx := context.Background()
	assistant, cleanup, err := buildAssistant(ctx, c, c.String("db"))
	if err != nil {
		return err
	}
	defer cleanup()

	ag, err := assistant.NewAgent()
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	defer ag.Release()

	answer, err := ag.Ask(ctx, c.String("conversation"), question)
	if err != nil {
		slog.Error("query pipeline failed", "err", err)
	}
	fmt.Println(answer)
	return nil
}

func ingestCommand(c *cli.Context) error {
	state := agent.State{TaskID: c.String("conversation")}
	switch {
	case c.String("file") != "":
		state.MediaKind = core.MediaDocument
		state.FilePath = c.String("file")
		state.FileName = filepath.Base(c.String("file"))
	case c.String("url") != "":
		state.MediaKind = core.MediaURL
		state.URL = c.String("url")
	case c.String("image") != "":
		state.MediaKind = core.MediaImage
		state.FilePath = c.String("image")
	case c.String("note") != "":
		state.MediaKind = core.MediaNote
		state.Question = c.String("note")
	default:
		return fmt.Errorf("one of --file, --url, --image, or --note is required")
	}

	ctx := context.Background()
	assistant, cleanup, err := buildAssistant(ctx, c, c.String("db"))
	if err != nil {
		return err
	}
	defer cleanup()

	ag, err := assistant.NewAgent()
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	defer ag.Release()

	handle, err := ag.ScheduleIngestion(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to schedule ingestion: %w", err)
	}

	fmt.Println(handle.Answer())
	return handle.Err()
}

func seedCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("a directory is required")
	}

	ctx := context.Background()
	assistant, cleanup, err := buildAssistant(ctx, c, "")
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	seeded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := assistant.KnowledgeStore().AddDocument(ctx, core.Document{
			Text:       string(data),
			Source:     entry.Name(),
			SourceType: core.SourceDocument,
		}, "")
		if err != nil && result.Stored == 0 {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		fmt.Fprintf(os.Stderr, "%s: %d chunks", entry.Name(), result.Stored)
		if result.FailedBatches > 0 {
			fmt.Fprintf(os.Stderr, " (%d/%d batches failed)",
				result.FailedBatches, result.TotalBatches)
		}
		fmt.Fprintln(os.Stderr)
		seeded++
	}

	fmt.Fprintf(os.Stderr, "Seeded %d files\n", seeded)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	ctx := context.Background()
	assistant, cleanup, err := buildAssistant(ctx, c, "")
	if err != nil {
		return err
	}
	defer cleanup()

	chunks := assistant.KnowledgeStore().Search(ctx, query)
	if len(chunks) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, chunk := range chunks {
		fmt.Printf("--- %d. [%s] %s ---\n%s\n\n", i+1, chunk.SourceType, chunk.Source, chunk.Text)
	}
	return nil
}

// setup configures logging and loads environment material from .env, if one
// exists alongside the working directory.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
