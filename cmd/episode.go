package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/bangumi"
)

var episodeType string

// episodeCmd groups the episode commands
var episodeCmd = &cobra.Command{
	Use:     "episode",
	Aliases: []string{"episodes", "ep"},
	Short:   "Look up episodes",
}

var episodeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodeGet,
}

var episodeListCmd = &cobra.Command{
	Use:   "list <subject-id>",
	Short: "List the episodes of a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodeList,
}

func init() {
	rootCmd.AddCommand(episodeCmd)
	episodeCmd.AddCommand(episodeGetCmd, episodeListCmd)

	episodeListCmd.Flags().StringVarP(&episodeType, "type", "t", "", "episode type: main, sp, op, ed, pv, mad or other")
	episodeListCmd.Flags().Uint64Var(&limit, "limit", 0, "maximum number of results")
	episodeListCmd.Flags().Uint64Var(&offset, "offset", 0, "number of results to skip")
}

func runEpisodeGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	episode, err := client.GetEpisode(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get episode: %w", err)
	}

	return render(cmd.OutOrStdout(), episode, func(w io.Writer) {
		printDetails(w, func(add func(key, value string)) {
			add("ID", uitoa(episode.ID))
			add("Type", episode.Type.String())
			add("Number", episodeNumber(*episode))
			add("Name", episode.Name)
			add("Name (CN)", episode.NameCN)
			add("Airdate", episode.Airdate)
			add("Duration", episode.Duration)
			add("Comments", uitoa(episode.Comment))
		})
		printSummary(w, episode.Desc)
	})
}

func runEpisodeList(cmd *cobra.Command, args []string) error {
	subjectID, err := parseID(args[0])
	if err != nil {
		return err
	}

	b := client.ListEpisodes().SubjectID(subjectID)
	if episodeType != "" {
		t, err := bangumi.ParseEpisodeType(episodeType)
		if err != nil {
			return err
		}
		b.Type(t)
	}
	if cmd.Flags().Changed("limit") {
		b.Limit(limit)
	}
	if cmd.Flags().Changed("offset") {
		b.Offset(offset)
	}

	page, err := b.Send(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	return render(cmd.OutOrStdout(), page, func(w io.Writer) {
		if len(page.Data) == 0 {
			fmt.Fprintln(w, "No episodes found.")
			return
		}
		printTable(w, []string{"#", "Type", "Airdate", "Name"}, func(add func(...string)) {
			for _, e := range page.Data {
				add(episodeNumber(e), e.Type.String(), e.Airdate, e.Name)
			}
		})
		printPaging(w, page.Total, page.Offset, len(page.Data))
	})
}

// episodeNumber prefers the in-subject number of main episodes over the
// sort position
func episodeNumber(e bangumi.Episode) string {
	n := e.Sort
	if e.Type == bangumi.EpisodeTypeMain && e.Ep != nil {
		n = *e.Ep
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
