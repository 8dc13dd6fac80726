package cliapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	decksvc "github.com/ivankudzin/matchdeck/internal/services/deck"
)

const deckHelp = "commands: drag <dx>, like, pass, refresh, quit"

func (a *App) deckCmd() *cobra.Command {
	var (
		userID string
		width  float64
	)
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Swipe through candidates interactively",
		Long:  "Reads one command per line from stdin.\n" + deckHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deck, err := a.engine.NewDeck(userID, width)
			if err != nil {
				return err
			}
			return a.runDeck(cmd.Context(), deck)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Swiping user id")
	cmd.Flags().Float64VarP(&width, "width", "w", 400, "Viewport width in points")
	return cmd
}

func (a *App) runDeck(ctx context.Context, deck *decksvc.Controller) error {
	if err := deck.Load(ctx); err != nil {
		return err
	}
	a.printf("%s (threshold %.1f)\n", deckHelp, deck.Threshold())
	a.showTop(deck)

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd := strings.ToLower(fields[0]); cmd {
		case "quit", "exit":
			return nil
		case "refresh":
			if err := deck.Refresh(ctx); err != nil {
				a.printf("refresh failed: %v\n", err)
				continue
			}
		case "like", "pass":
			outcome, err := deck.Press(ctx, enums.SwipeAction(cmd))
			a.report(outcome, err)
		case "drag":
			if len(fields) < 2 {
				a.printf("usage: drag <dx>\n")
				continue
			}
			dx, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				a.printf("invalid offset %q\n", fields[1])
				continue
			}
			outcome, err := a.drag(ctx, deck, dx)
			a.report(outcome, err)
		default:
			a.printf("unknown command %q; %s\n", cmd, deckHelp)
			continue
		}
		a.showTop(deck)
	}
	return scanner.Err()
}

func (a *App) drag(ctx context.Context, deck *decksvc.Controller, dx float64) (decksvc.Outcome, error) {
	if err := deck.BeginDrag(); err != nil {
		return decksvc.Outcome{}, err
	}
	if err := deck.DragTo(dx, 0); err != nil {
		return decksvc.Outcome{}, err
	}
	return deck.EndDrag(ctx)
}

func (a *App) report(outcome decksvc.Outcome, err error) {
	switch {
	case errors.Is(err, decksvc.ErrExhausted):
		a.printf("no more profiles\n")
	case err != nil:
		a.printf("swipe failed: %v\n", err)
	case !outcome.Committed:
		a.printf("snapped back\n")
	case outcome.RecordErr != nil:
		a.printf("%s %s (not saved: %v)\n", outcome.Action, outcome.TargetID, outcome.RecordErr)
	default:
		a.printf("%s %s\n", outcome.Action, outcome.TargetID)
	}
}

func (a *App) showTop(deck *decksvc.Controller) {
	top, ok := deck.Top()
	if !ok {
		a.printf("no more profiles\n")
		return
	}
	line := fmt.Sprintf("> %s [%s]", top.Profile.DisplayName, top.Profile.ID)
	if top.Profile.Age != nil {
		line += fmt.Sprintf(", %d", *top.Profile.Age)
	}
	if top.Profile.Bio != "" {
		line += ": " + top.Profile.Bio
	}
	a.printf("%s (%d left)\n", line, deck.Remaining())
}
