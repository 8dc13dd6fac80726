package cliapp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
	profilesvc "github.com/ivankudzin/matchdeck/internal/services/profiles"
)

func (a *App) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored profiles",
	}

	var (
		id, name, bio, photo string
		age                  int
	)
	put := &cobra.Command{
		Use:   "put",
		Short: "Create or replace a profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := profilesvc.PutInput{
				ID:          strings.TrimSpace(id),
				DisplayName: name,
				Bio:         bio,
			}
			if in.ID == "" {
				in.ID = uuid.NewString()
			}
			if cmd.Flags().Changed("photo") {
				in.PhotoURL = &photo
			}
			if cmd.Flags().Changed("age") {
				in.Age = &age
			}

			profile, err := a.engine.Editor.Put(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("put profile: %w", err)
			}
			return a.writeJSON(profile)
		},
	}
	put.Flags().StringVar(&id, "id", "", "Profile id (generated when empty)")
	put.Flags().StringVar(&name, "name", "", "Display name")
	put.Flags().StringVar(&bio, "bio", "", "Bio text")
	put.Flags().StringVar(&photo, "photo", "", "Photo URL")
	put.Flags().IntVar(&age, "age", 0, "Age in years")

	cmd.AddCommand(put)
	return cmd
}

func (a *App) candidatesCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List candidates for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := a.engine.Candidates.Select(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if profiles == nil {
				profiles = []model.Profile{}
			}
			return a.writeJSON(profiles)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Requesting user id")
	return cmd
}

func (a *App) swipeCmd() *cobra.Command {
	var userID, targetID, action string
	cmd := &cobra.Command{
		Use:   "swipe",
		Short: "Record a like or pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := a.engine.Swipes.Record(cmd.Context(), userID, targetID, action)
			if err != nil {
				return err
			}
			return a.writeJSON(record)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Swiping user id")
	cmd.Flags().StringVarP(&targetID, "target", "t", "", "Target profile id")
	cmd.Flags().StringVarP(&action, "action", "a", "", "like or pass")
	return cmd
}

func (a *App) matchesCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List mutual likes for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := a.engine.Matches.Find(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if found == nil {
				found = []model.Match{}
			}
			return a.writeJSON(found)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id")
	return cmd
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
