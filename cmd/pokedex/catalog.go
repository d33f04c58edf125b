package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/listenupapp/pokedex/internal/catalog"
	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/util"
)

func catalogCommand(c *cli) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the Pokemon catalog",
	}
	catalogCmd.AddCommand(catalogListCommand(c), catalogShowCommand(c))
	return catalogCmd
}

func catalogListCommand(c *cli) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("invalid page %d: pages start at 1", page)
			}

			pager := catalog.NewPager(c.session().Client(), c.config().Catalog.PageSize, c.logger().Logger)
			defer pager.Close()

			if err := pager.Load(cmd.Context(), page-1); err != nil {
				return fmt.Errorf("list pokemon: %w", err)
			}

			snap := pager.Snapshot()
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPES")
			for _, p := range snap.Items {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.DisplayName(), typeNames(p.Types))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "Page %d", snap.Number+1)
			if snap.HasMore {
				fmt.Fprintf(c.out, " (next: --page %d)", snap.Number+2)
			}
			fmt.Fprintln(c.out)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	return cmd
}

func catalogShowCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one Pokemon in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.session().Client().GetPokemonByName(cmd.Context(), util.NameSlug(args[0]))
			if err != nil {
				return fmt.Errorf("get pokemon: %w", err)
			}
			return printPokemon(c, p)
		},
	}
}

func printPokemon(c *cli, p *domain.Pokemon) error {
	fmt.Fprintf(c.out, "#%d %s\n", p.ID, p.DisplayName())
	fmt.Fprintf(c.out, "Types: %s\n", typeNames(p.Types))
	if p.Description != "" {
		fmt.Fprintf(c.out, "\n%s\n", p.Description)
	}
	if p.Sprites.FrontDefault != "" {
		fmt.Fprintf(c.out, "\nSprite: %s\n", p.Sprites.FrontDefault)
	}
	if p.Sprites.FrontShiny != "" {
		fmt.Fprintf(c.out, "Shiny:  %s\n", p.Sprites.FrontShiny)
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	if len(p.Stats) > 0 {
		fmt.Fprintln(tw, "\nSTAT\tVALUE")
		for _, k := range domain.StatKeys(p.Stats) {
			fmt.Fprintf(tw, "%s\t%d\n", domain.StatLabel(k), p.Stats[k])
		}
	}
	if len(p.Moves) > 0 {
		fmt.Fprintln(tw, "\nMOVE\tPOWER\tTYPE")
		for _, mv := range p.Moves {
			power := "-"
			if mv.Power != nil {
				power = fmt.Sprint(*mv.Power)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", domain.DisplayName(mv.Name), power, mv.Type.Name)
		}
	}
	return tw.Flush()
}

func typeNames(tags []domain.TypeTag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
