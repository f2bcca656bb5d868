package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datahiredevops/datahire-workspace/internal/assistant"
)

var chatCommand = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the assistant",
	Long: `Sends a message to the DataHire assistant. With a message argument, sends it
and prints the reply. Without one, opens an interactive session; the
transcript lives only for the session and is gone when it ends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChatCmd,
}

func init() {
	rootCmd.AddCommand(chatCommand)
}

func runChatCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	sess := assistant.NewSession(client, cfg.UserID)

	if len(args) == 1 {
		reply := sess.Send(ctx, args[0])
		fmt.Println(reply.Content)
		if reply.Failed {
			os.Exit(1)
		}
		return nil
	}

	fmt.Println("Assistant session started. Type your message, or /quit to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			break
		}
		if line == "" {
			continue
		}
		reply := sess.Send(ctx, line)
		fmt.Println(reply.Content)
	}
	return scanner.Err()
}
