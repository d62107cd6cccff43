package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"bling-sync/core/cursor"
	"bling-sync/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resetDate  string
	yesConfirm bool
)

// cursorCmd is the parent command for cursor maintenance.
var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Inspect or reset the import cursors",
}

var cursorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every persisted cursor",
	RunE:  runCursorList,
}

var cursorResetCmd = &cobra.Command{
	Use:   "reset <kind>",
	Short: "Move a cursor back to page 1",
	Long: `Restarts a kind at page 1. Windowed kinds restart at --date, or at their
configured start date. The next run re-imports everything from there.

Examples:
  # Orders from their configured start date (interactive confirmation)
  cursor reset venda

  # Payments from March 2024, non-interactive
  cursor reset pagamento --date 2024-03-01 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runCursorReset,
}

func init() {
	cursorResetCmd.Flags().StringVar(&resetDate, "date", "", "First window (YYYY-MM-DD)")
	cursorResetCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	cursorCmd.AddCommand(cursorListCmd, cursorResetCmd)
	RootCmd.AddCommand(cursorCmd)
}

func runCursorList(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	cursors, err := cursor.NewStore(db).List(context.Background())
	if err != nil {
		return err
	}
	if len(cursors) == 0 {
		l.Info("No cursors yet")
		return nil
	}
	for _, c := range cursors {
		window := ""
		if c.WindowDate != nil {
			window = utils.FormatDate(*c.WindowDate)
		}
		l.Info("Cursor",
			zap.String("kind", c.EntityKind),
			zap.Int("page", c.Page),
			zap.Int16("last_index", c.LastProcessedIndex),
			zap.String("window", window),
			zap.Time("updated_at", c.UpdatedAt),
		)
	}
	return nil
}

func runCursorReset(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()

	ctx := context.Background()
	a, err := newApp(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer a.close()

	kind := args[0]
	if _, err := a.importer.Source(kind); err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Reset cursor %q?", kind)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	c, err := a.sync.ResetCursor(ctx, kind, resetDate)
	if err != nil {
		return err
	}
	fields := []zap.Field{zap.String("kind", c.EntityKind), zap.Int("page", c.Page)}
	if c.WindowDate != nil {
		fields = append(fields, zap.String("window", utils.FormatDate(*c.WindowDate)))
	}
	l.Info("Cursor reset", fields...)
	return nil
}

// confirm prompts the user, or answers yes when --yes was given.
func confirm(question string) bool {
	if yesConfirm {
		return true
	}

	fmt.Printf("%s Type 'yes' to confirm: ", question)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
