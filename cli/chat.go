package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/services/chat_service"
	"github.com/saarthi-labs/krishisaarthi/services/llm_service"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chatbot over the stored documents",
	RunE:  runChatREPL,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChatREPL(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)
	ctx := cmd.Context()

	pool, store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()

	embedder := rag_service.NewEmbeddingService(cfg.OpenAIAPIKey, cfg.EmbeddingModel, logger)
	llm := llm_service.NewGroqService(zapLogger)
	chat := chat_service.NewChatService(store, embedder, llm, cfg.GroqAPIKey, cfg.LLMModel, logger)

	fmt.Println("\nRAG Chatbot Ready (Groq)! Type exit to stop.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Farmer Question: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") {
			break
		}

		answer, sources, err := chat.Answer(ctx, query)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		fmt.Println("\nAnswer:")
		fmt.Println()
		fmt.Println(answer)

		fmt.Println("\nSources used:")
		for _, source := range sources {
			fmt.Println("-", source)
		}

		fmt.Println("\n" + strings.Repeat("=", 60))
		fmt.Println()
	}

	return scanner.Err()
}
