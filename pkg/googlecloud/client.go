package googlecloud

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"
	"github.com/rs/zerolog/log"
)

// Client wraps the Datastore client with the task operations used by exports.
type Client struct {
	ds *datastore.Client
}

// NewClient creates a Datastore client. The library picks up
// DATASTORE_EMULATOR_HOST on its own; it is only logged here.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if emulatorHost := os.Getenv("DATASTORE_EMULATOR_HOST"); emulatorHost != "" {
		log.Info().Str("emulator", emulatorHost).Msg("using datastore emulator")
	}

	ds, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}

	return &Client{ds: ds}, nil
}

// Close closes the underlying datastore client.
func (c *Client) Close() error {
	return c.ds.Close()
}
