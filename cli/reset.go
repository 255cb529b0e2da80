// ABOUTME: Reset CLI command
// ABOUTME: Discards stored collections so the next read reseeds from fixtures
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/nexus/service"
)

// ResetCommand drops all data. It refuses to run without --confirm.
func ResetCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "Really discard all stored data")
	_ = fs.Parse(args)

	if !*confirm {
		return fmt.Errorf("reset discards all stored data; rerun with --confirm")
	}

	if err := crm.Reset(ctx); err != nil {
		return err
	}

	fmt.Println("✓ Data reset to fixtures")
	return nil
}
