package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"textile-assistant/internal/app"
)

// Natural-language phrases that should redirect to the guided flows rather
// than hit the resolver.
var (
	addPhrases    = []string{"add an order", "add new order", "create order", "new order", "insert order"}
	updatePhrases = []string{"update", "edit", "modify", "change"}
	deletePhrases = []string{"delete", "remove"}
)

// Run starts the interactive loop. It reads commands from reader, dispatches
// the fixed commands (help, add, exit, quit) deterministically, and routes
// everything else through the query resolver.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	printBanner()
	fmt.Println("System ready. Type 'help' for usage examples or 'exit' to quit.")

	for {
		fmt.Print("\nYour question: ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Println("\nThank you for using the Textile Order Assistant!")
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		lower := strings.ToLower(input)

		switch lower {
		case "exit", "quit":
			fmt.Println("\nThank you for using the Textile Order Assistant!")
			return
		case "help":
			printHelp()
			continue
		case "add":
			runAddWizard(ctx, reader, svc)
			continue
		}

		if containsAny(lower, addPhrases) {
			fmt.Println("\nTo add a new order, please type: add")
			fmt.Println("This starts the guided data entry process.")
			continue
		}
		if containsAny(lower, updatePhrases) {
			fmt.Println("\nUpdate/Edit functionality:")
			fmt.Println("The system currently supports adding new orders only.")
			fmt.Println("To add a new order, type: add")
			continue
		}
		if containsAny(lower, deletePhrases) {
			fmt.Println("\nDelete functionality:")
			fmt.Println("The system currently supports adding new orders only.")
			fmt.Println("Delete operations require programmatic access.")
			continue
		}

		fmt.Println("\nSearching...")
		answer, err := svc.Answer(ctx, input)
		if err != nil {
			fmt.Printf("\nError: %v\n", err)
			continue
		}
		fmt.Println("\nAnswer:")
		fmt.Println(strings.Repeat("-", 70))
		fmt.Println(answer)
		fmt.Println(strings.Repeat("-", 70))
	}
}

func printBanner() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  TEXTILE ORDER ASSISTANT")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  Your intelligent textile order management system")
	fmt.Println(strings.Repeat("=", 70))
}

func printHelp() {
	fmt.Println(`
AVAILABLE COMMANDS:

  Query Examples:
  • "Show orders for [Vendor Name]"
  • "What items did [Vendor Name] order?"
  • "Total amount spent by [Vendor Name]"
  • "GST number of [Vendor Name]"

  Special Commands:
  • add      - Add a new order (guided entry)
  • help     - Show this help message
  • exit     - Exit the application
  • quit     - Exit the application`)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
