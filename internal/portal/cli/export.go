package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Export writes a JSON snapshot of all three collections to path. The
// snapshot includes password hashes, so treat the file as sensitive.
func (a *App) Export(ctx context.Context, path string) error {
	snap, err := a.store.Export(ctx)
	if err != nil {
		log.Printf("Export unsuccessful: %s", err.Error())
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("Export unsuccessful: %s", err.Error())
		return err
	}

	if err := os.WriteFile(path, data, 0o660); err != nil {
		log.Printf("Export unsuccessful: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Exported %d users, %d projects, %d resources to %s",
		len(snap.Users), len(snap.Projects), len(snap.Resources), path))
	return nil
}
