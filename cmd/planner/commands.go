package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/itinerary-planner/internal/app/generation"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/session"
	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// sessionAPI is the part of *session.Store the commands use.
type sessionAPI interface {
	Snapshot() session.Session
	Generate(ctx context.Context, prefs domain.Preferences) (generation.Result, error)
	DeleteItinerary(ctx context.Context, id domain.ItineraryID) error
	Ask(ctx context.Context, question, destination string) (string, error)
	UpdateProfile(ctx context.Context, name string) error
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error)
}

type command interface {
	run(ctx context.Context, s sessionAPI, out io.Writer) error
}

// app carries the root flags and the session runner shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer
	acct   account
	// runSession boots a session and runs cmd against it.
	runSession func(ctx context.Context, cmd command) error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Plan trips against a running itinerary backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.acct.email, "email", os.Getenv("PLANNER_EMAIL"), "account email")
	pf.StringVar(&a.acct.password, "password", os.Getenv("PLANNER_PASSWORD"), "account password")
	pf.StringVar(&a.acct.name, "name", "Traveler", "display name used when the dev account is created")

	root.AddCommand(
		newListCmd(a),
		newGenerateCmd(a),
		newDeleteCmd(a),
		newAskCmd(a),
		newRenameCmd(a),
		newAvatarCmd(a),
	)
	return root
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show saved itineraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSession(cmd.Context(), listCmd{})
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var prefs domain.Preferences
	var budget string
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate and save an itinerary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs.Budget = domain.Budget(budget)
			return a.runSession(cmd.Context(), generateCmd{prefs: prefs})
		},
	}
	f := c.Flags()
	f.StringVar(&prefs.Destination, "dest", "", "destination")
	f.IntVar(&prefs.Days, "days", 3, "trip length in days")
	f.StringVar(&budget, "budget", string(domain.BudgetModerate), "budget|moderate|luxury")
	f.StringSliceVar(&prefs.Interests, "interests", nil, "comma-separated interests")
	f.StringVar(&prefs.AdditionalNotes, "notes", "", "additional requirements")
	_ = c.MarkFlagRequired("dest")
	return c
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(cmd.Context(), deleteCmd{id: domain.ItineraryID(args[0])})
		},
	}
}

func newAskCmd(a *app) *cobra.Command {
	var dest string
	c := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask a travel question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(cmd.Context(), askCmd{question: strings.Join(args, " "), destination: dest})
		},
	}
	c.Flags().StringVar(&dest, "dest", "", "destination the question is about")
	return c
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME...",
		Short: "Change the display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(cmd.Context(), renameCmd{name: strings.Join(args, " ")})
		},
	}
}

func newAvatarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar FILE",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(cmd.Context(), avatarCmd{path: args[0]})
		},
	}
}

type listCmd struct{}

func (listCmd) run(_ context.Context, s sessionAPI, out io.Writer) error {
	its := s.Snapshot().Itineraries
	if len(its) == 0 {
		fmt.Fprintln(out, "no saved itineraries")
		return nil
	}
	for _, it := range its {
		printSummary(out, it)
	}
	return nil
}

type generateCmd struct {
	prefs domain.Preferences
}

func (c generateCmd) run(ctx context.Context, s sessionAPI, out io.Writer) error {
	res, err := s.Generate(ctx, c.prefs)
	if err != nil {
		return err
	}
	printSummary(out, res.Itinerary)
	if !res.Saved {
		fmt.Fprintln(out, "(not saved)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, res.Itinerary.Content)
	return nil
}

type deleteCmd struct {
	id domain.ItineraryID
}

func (c deleteCmd) run(ctx context.Context, s sessionAPI, out io.Writer) error {
	if err := s.DeleteItinerary(ctx, c.id); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", c.id)
	return nil
}

type askCmd struct {
	question    string
	destination string
}

func (c askCmd) run(ctx context.Context, s sessionAPI, out io.Writer) error {
	answer, err := s.Ask(ctx, c.question, c.destination)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, answer)
	return nil
}

type renameCmd struct {
	name string
}

func (c renameCmd) run(ctx context.Context, s sessionAPI, out io.Writer) error {
	if err := s.UpdateProfile(ctx, c.name); err != nil {
		return err
	}
	if u := s.Snapshot().User; u != nil {
		fmt.Fprintf(out, "name set to %s\n", u.Name)
	}
	return nil
}

type avatarCmd struct {
	path string
}

func (c avatarCmd) run(ctx context.Context, s sessionAPI, out io.Writer) error {
	f, err := os.Open(c.path)
	if err != nil {
		return err
	}
	defer f.Close()
	url, err := s.UploadAvatar(ctx, filepath.Base(c.path), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, url)
	return nil
}

func printSummary(out io.Writer, it domain.Itinerary) {
	fmt.Fprintf(out, "%s  %-20s %2dd  %-8s %-7s %s\n",
		it.ID, it.Destination, it.Days, it.Budget, it.Status, it.CreatedAt.Format("2006-01-02"))
}
