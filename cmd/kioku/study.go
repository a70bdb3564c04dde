package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kioku-app/kioku/internal/cli"
)

// uuidFlag parses a UUID command line flag in place.
type uuidFlag struct {
	id *uuid.UUID
}

var _ pflag.Value = uuidFlag{}

func (f uuidFlag) Set(val string) error {
	id, err := uuid.Parse(val)
	if err != nil {
		return err
	}
	*f.id = id
	return nil
}

func (f uuidFlag) String() string {
	if f.id == nil || *f.id == uuid.Nil {
		return ""
	}
	return f.id.String()
}

func (f uuidFlag) Type() string {
	return "uuid"
}

func newStudyCommand() *cobra.Command {
	var userID, collectionID uuid.UUID
	command := &cobra.Command{
		Use:   "study",
		Short: "Run an interactive study session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			service, cleanup, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return cli.NewStudyCLI(service, userID, collectionID).Run(cmd.Context())
		},
	}
	command.Flags().Var(uuidFlag{&userID}, "user", "user id")
	command.Flags().Var(uuidFlag{&collectionID}, "collection", "collection id")
	_ = command.MarkFlagRequired("user")
	_ = command.MarkFlagRequired("collection")
	return command
}

func newStatsCommand() *cobra.Command {
	var userID, collectionID uuid.UUID
	command := &cobra.Command{
		Use:   "stats",
		Short: "Show collection progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			service, cleanup, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return cli.NewStatsCLI(service, userID, collectionID).Run(cmd.Context())
		},
	}
	command.Flags().Var(uuidFlag{&userID}, "user", "user id")
	command.Flags().Var(uuidFlag{&collectionID}, "collection", "collection id")
	_ = command.MarkFlagRequired("user")
	_ = command.MarkFlagRequired("collection")
	return command
}
