package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderform/pkg/prompt"
	"github.com/goliatone/go-orderform/pkg/state"
	"github.com/goliatone/go-orderform/pkg/submit"
)

var tuiAttempts int

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Place an order from the terminal",
	Long: `Walk through the order form in the terminal: full name, size and
toppings are asked in turn, validated with the same rules as the web form,
and submitted to the order endpoint after confirmation.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().IntVar(&tuiAttempts, "attempts", prompt.DefaultMaxAttempts,
		"Number of tries allowed for an invalid full name")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := submit.NewHTTPClient(cfg.Order.Endpoint, submit.WithTimeout(cfg.Order.Timeout))
	if err != nil {
		return err
	}

	controller := state.New(state.WithLogger(logger))
	defer controller.Close()
	handler, err := submit.New(controller, client, submit.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flow := prompt.New(controller, handler,
		prompt.WithPromptDriver(prompt.NewSurveyDriver(cmd.OutOrStdout())),
		prompt.WithMaxAttempts(tuiAttempts),
		prompt.WithLogger(logger),
	)
	if _, err := flow.Run(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		return err
	}
	return nil
}
