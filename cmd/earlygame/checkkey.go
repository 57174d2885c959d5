package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"match-analyzer/internal/riot"
)

var checkKeyCmd = &cobra.Command{
	Use:   "check-key",
	Short: "Check that the configured Riot API key is accepted",
	Args:  cobra.NoArgs,
	RunE:  runCheckKey,
}

func runCheckKey(cmd *cobra.Command, args []string) error {
	client, err := riot.NewClient(cfg.RiotAPIKey, riot.WithPlatformURL(cfg.PlatformURL))
	if err != nil {
		return err
	}

	status, ok, err := client.CheckKey(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not validate key: %w", err)
	}
	if !ok {
		return errors.New("API key rejected; generate a new one at https://developer.riotgames.com")
	}
	fmt.Printf("API key %s is valid (%s, %d open incidents)\n", client.MaskedKey(), status.Name, len(status.Incidents))
	return nil
}
