package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/listenupapp/pokedex/internal/box"
	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/util"
)

func boxCommand(c *cli) *cobra.Command {
	boxCmd := &cobra.Command{
		Use:   "box",
		Short: "Manage the Pokemon you have caught",
	}
	boxCmd.AddCommand(
		boxListCommand(c),
		boxAddCommand(c),
		boxEditCommand(c),
		boxReleaseCommand(c),
	)
	return boxCmd
}

// entryFlags are the editable fields shared by add and edit.
type entryFlags struct {
	location string
	level    int
	notes    string
	caughtAt string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.location, "location", "", "Where the Pokemon was caught")
	cmd.Flags().IntVar(&f.level, "level", 0, "Level, 1-100")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.caughtAt, "caught-at", "", "Catch time as RFC 3339 (default now)")
}

// apply copies the flags set on cmd into form.
func (f *entryFlags) apply(cmd *cobra.Command, form *box.Form) error {
	flags := cmd.Flags()
	if flags.Changed("location") {
		form.Location = f.location
	}
	if flags.Changed("level") {
		form.Level = strconv.Itoa(f.level)
	}
	if flags.Changed("notes") {
		form.Notes = f.notes
	}
	if flags.Changed("caught-at") {
		t, err := time.Parse(time.RFC3339, f.caughtAt)
		if err != nil {
			return fmt.Errorf("invalid --caught-at %q: %w", f.caughtAt, err)
		}
		form.CreatedAt = t.UTC().Format(box.TimestampLayout)
	}
	return nil
}

// loadNames builds the id to name index before a box command resolves
// entries. Failures only leave entries unresolved.
func (c *cli) loadNames(ctx context.Context) {
	session := c.session()
	session.StartIndex(ctx)
	select {
	case <-session.IndexDone():
	case <-ctx.Done():
	}
}

func boxListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c.loadNames(ctx)

			session := c.session()
			view := box.NewView(session.Client(), session.Names(), c.logger().Logger)
			defer view.Close()

			if err := view.Load(ctx); err != nil {
				return fmt.Errorf("load box: %s", box.ErrorMessage(err))
			}

			snap := view.Snapshot()
			if snap.Empty() {
				fmt.Fprintln(c.out, "Your Box is empty!")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPOKEMON\tLEVEL\tLOCATION\tCAUGHT\tNOTES")
			for i := range snap.Entries {
				entry, p, ok := snap.Card(i)
				name := fmt.Sprintf("#%d", entry.PokemonID)
				if ok {
					name = p.DisplayName()
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
					entry.ID, name, entry.Level, entry.Location, entry.CaughtAt(), entry.Notes)
			}
			return tw.Flush()
		},
	}
}

func boxAddCommand(c *cli) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Catch a Pokemon into your box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := c.session().Client()

			p, err := client.GetPokemonByName(ctx, util.NameSlug(args[0]))
			if err != nil {
				return fmt.Errorf("get pokemon: %w", err)
			}

			form := box.NewCreateForm(*p, time.Now())
			if err := flags.apply(cmd, form); err != nil {
				return err
			}

			entry, err := form.Submit(ctx, client)
			if err != nil {
				return fmt.Errorf("%s: %s", form.Title(), form.Message())
			}

			fmt.Fprintf(c.out, "Caught %s (entry %s)\n", p.DisplayName(), entry.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func boxEditCommand(c *cli) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a box entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := c.session().Client()

			entry, err := client.GetBoxEntry(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get box entry: %s", box.ErrorMessage(err))
			}

			form := box.NewEditForm(domain.Pokemon{ID: entry.PokemonID}, *entry)
			if err := flags.apply(cmd, form); err != nil {
				return err
			}

			saved, err := form.Submit(ctx, client)
			if err != nil {
				return fmt.Errorf("%s: %s", form.Title(), form.Message())
			}

			fmt.Fprintf(c.out, "Updated entry %s: level %d at %s\n", saved.ID, saved.Level, saved.Location)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func boxReleaseCommand(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "release ID",
		Short: "Release a Pokemon from your box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID := args[0]

			if !yes {
				fmt.Fprintf(c.out, "Release entry %s? [y/N]: ", entryID)
				answer, _ := bufio.NewReader(c.in).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(c.out, "Aborted.")
					return nil
				}
			}

			if err := c.session().Client().DeleteBoxEntry(cmd.Context(), entryID); err != nil {
				return fmt.Errorf("release: %s", box.ErrorMessage(err))
			}

			fmt.Fprintf(c.out, "Released entry %s\n", entryID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Release without asking")
	return cmd
}
