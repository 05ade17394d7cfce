package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"foodreel/internal/textutil"
)

func newSlugCommand() *cobra.Command {
	var itemID string

	cmd := &cobra.Command{
		Use:         "slug <text>...",
		Short:       "Print the URL slug for a name, or the page slug for a caption with --item",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(itemID) != "" {
				fmt.Fprintln(cmd.OutOrStdout(), textutil.ItemSlug(text, strings.TrimSpace(itemID)))
				return nil
			}
			slug := textutil.Slugify(text)
			if slug == "" {
				return errors.New("text has no characters usable in a slug")
			}
			fmt.Fprintln(cmd.OutOrStdout(), slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Treat the text as a caption and build the item page slug for this id")
	return cmd
}
