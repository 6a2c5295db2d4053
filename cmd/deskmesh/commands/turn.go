package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskmesh/deskmesh/core"
)

var (
	turnConversationID string
	turnTicketID       string
	turnUserID         string
	turnChannel        string
	turnUrgency        string
	turnEmail          string
	turnJSON           bool
	turnShowTrace      bool
)

var turnCmd = &cobra.Command{
	Use:   "turn [message]",
	Short: "Run one triage turn",
	Long: `Runs a single triage turn for a conversation: classify the message,
answer it from the knowledge corpus or backend tools, and print the reply.
Repeated invocations with the same --conversation continue the history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTurn,
}

func init() {
	turnCmd.Flags().StringVar(&turnConversationID, "conversation", "", "Conversation id (defaults to a fresh id)")
	turnCmd.Flags().StringVar(&turnTicketID, "ticket", "", "Ticket id for note logging")
	turnCmd.Flags().StringVar(&turnUserID, "user", "", "User id for history summarization")
	turnCmd.Flags().StringVar(&turnChannel, "channel", "cli", "Originating channel")
	turnCmd.Flags().StringVar(&turnUrgency, "urgency", "", "Urgency hint (normal or high)")
	turnCmd.Flags().StringVar(&turnEmail, "email", "", "Contact email for account tools")
	turnCmd.Flags().BoolVar(&turnJSON, "json", false, "Output the full turn result as JSON")
	turnCmd.Flags().BoolVar(&turnShowTrace, "trace", false, "Print the execution trace")
}

func runTurn(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	conversationID := turnConversationID
	if conversationID == "" {
		conversationID = core.NewID()
	}

	ticket := core.TicketContext{
		TicketID: turnTicketID,
		UserID:   turnUserID,
		Channel:  turnChannel,
		Urgency:  core.Urgency(turnUrgency),
	}
	if turnEmail != "" {
		ticket.Metadata = map[string]string{"email": turnEmail}
	}

	result, err := svc.Turn(ctx, conversationID, ticket, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if turnJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.Reply)
	if turnShowTrace {
		fmt.Fprintln(os.Stderr)
		for _, entry := range result.Trace {
			fmt.Fprintf(os.Stderr, "  %s\n", entry)
		}
	}
	fmt.Fprintf(os.Stderr, "\nconversation: %s\n", result.ConversationID)
	return nil
}
