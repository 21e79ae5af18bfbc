package main

import (
	"context"
	"fmt"

	"github.com/fhuszti/medias-lifecycle-go/internal/bootstrap"
	"github.com/fhuszti/medias-lifecycle-go/internal/config"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	mediaSvc "github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
	"github.com/spf13/cobra"
)

// env is what a command needs from the outside world.
type env struct {
	repo      port.MediaRepository
	reclaimer port.OrphanReclaimer
	fixer     port.MediaFixer
	deleter   port.MediaDeleter
	publisher port.IntentPublisher
	close     func()
}

type envFactory func(ctx context.Context, needPublisher bool) (*env, error)

func defaultEnv(ctx context.Context, needPublisher bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	logger.Init()

	if needPublisher && !cfg.UsesRedis() {
		return nil, fmt.Errorf("REDIS_ADDR must be set to publish intents; use --inline to run them here")
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	procs := app.Processors()
	e := &env{
		repo:      app.Repo,
		reclaimer: procs.Reclaimer,
		fixer:     procs.Fixer,
		deleter:   procs.Deleter,
		close:     func() { app.Close(ctx) },
	}
	if needPublisher {
		d := task.NewDispatcher(bootstrap.RedisOpt(cfg))
		e.publisher = d
		e.close = func() {
			_ = d.Close()
			app.Close(ctx)
		}
	}
	return e, nil
}

func newRootCmd(open envFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "mediactl",
		Short:         "Maintenance operations on medias",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newReclaimCmd(open),
		newFixateCmd(open),
		newDeleteCmd(open),
	)
	return root
}

func newReclaimCmd(open envFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "reclaim",
		Short: "Run one orphan sweep now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.close()

			rep, err := e.reclaimer.ReclaimOrphans(cmd.Context())
			if err != nil {
				return fmt.Errorf("orphan sweep failed: %w", err)
			}
			cmd.Printf("candidates=%d reclaimed=%d failed=%d\n", rep.Candidates, rep.Reclaimed, rep.Failed)
			return nil
		},
	}
}

func newFixateCmd(open envFactory) *cobra.Command {
	var inline bool
	cmd := &cobra.Command{
		Use:   "fixate <id>...",
		Short: "Publish (or run with --inline) a fixation for each media",
		Args:  uuidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), !inline)
			if err != nil {
				return err
			}
			defer e.close()

			var run func(context.Context, uuid.UUID) error
			if inline {
				run = e.fixer.FixateMedia
			} else {
				run = mediaSvc.NewFixationRequester(e.publisher).RequestFixation
			}
			return forEachID(cmd, args, "fixate", run)
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "run the fixation here instead of publishing it")
	return cmd
}

func newDeleteCmd(open envFactory) *cobra.Command {
	var inline bool
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Publish (or run with --inline) a deletion for each media",
		Args:  uuidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), !inline)
			if err != nil {
				return err
			}
			defer e.close()

			var run func(context.Context, uuid.UUID) error
			if inline {
				run = e.deleter.DeleteMedia
			} else {
				run = mediaSvc.NewDeletionRequester(e.repo, e.publisher).RequestDeletion
			}
			return forEachID(cmd, args, "delete", run)
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "run the deletion here instead of publishing it")
	return cmd
}

// uuidArgs requires at least one argument, all of them media IDs.
func uuidArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	for _, a := range args {
		if _, err := uuid.Parse(a); err != nil {
			return fmt.Errorf("%q is not a valid media ID", a)
		}
	}
	return nil
}

// forEachID runs op on every id and keeps going on failure.
func forEachID(cmd *cobra.Command, args []string, verb string, op func(context.Context, uuid.UUID) error) error {
	failed := 0
	for _, a := range args {
		id := uuid.MustParse(a)
		if err := op(cmd.Context(), id); err != nil {
			failed++
			cmd.PrintErrf("❌  %s media #%s: %v\n", verb, id, err)
			continue
		}
		cmd.Printf("✅  %s media #%s\n", verb, id)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d medias could not %s", failed, len(args), verb)
	}
	return nil
}
