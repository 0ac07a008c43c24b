package cmd

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/bangumi"
	"github.com/s0up4200/bgmtv/filter"
)

var (
	// Shared flags
	filterExpr  string
	preset      string
	limit       uint64
	offset      uint64
	imageSize   string
	imageFile   string
	concurrency int

	// subject search flags
	searchSort    string
	searchTypes   []string
	searchTags    []string
	searchAirDate []string
	searchRating  []string
	searchRank    []string
	searchNSFW    bool

	// subject list flags
	listType     string
	listCategory string
	listSeries   bool
	listPlatform string
	listSort     string
	listYear     int
	listMonth    int
)

// subjectCmd groups the subject commands
var subjectCmd = &cobra.Command{
	Use:     "subject",
	Aliases: []string{"subjects", "s"},
	Short:   "Look up, search and list subjects",
}

var subjectGetCmd = &cobra.Command{
	Use:   "get <id>...",
	Short: "Show one or more subjects",
	Long: `Show subjects by id. Several ids, space or comma separated, are fetched
concurrently and printed in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubjectGet,
}

var subjectSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search subjects by keyword",
	Long: `Search subjects by keyword. Server side conditions are set with the
--type, --tag, --air-date, --rating, --rank and --nsfw flags; --where and
--preset narrow the returned page locally.

Conditions use the API syntax, e.g. --air-date ">=2020-07-01" --rating ">=7".`,
	Args: cobra.ExactArgs(1),
	RunE: runSubjectSearch,
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse subjects of a type",
	Long: `Browse subjects of one type, optionally narrowed by category, year and
month. Categories depend on the type, e.g. "comic" for books or "tv" for anime.`,
	Args: cobra.NoArgs,
	RunE: runSubjectList,
}

var subjectImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Download a subject's cover image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImage(cmd, args[0], client.GetSubjectImage)
	},
}

var subjectPersonsCmd = &cobra.Command{
	Use:   "persons <id>",
	Short: "List the staff and cast of a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubjectPersons,
}

var subjectCharactersCmd = &cobra.Command{
	Use:   "characters <id>",
	Short: "List the characters of a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubjectCharacters,
}

var subjectRelationsCmd = &cobra.Command{
	Use:   "relations <id>",
	Short: "List subjects related to a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubjectRelations,
}

func init() {
	rootCmd.AddCommand(subjectCmd)
	subjectCmd.AddCommand(subjectGetCmd, subjectSearchCmd, subjectListCmd, subjectImageCmd,
		subjectPersonsCmd, subjectCharactersCmd, subjectRelationsCmd)

	subjectGetCmd.Flags().IntVarP(&concurrency, "concurrency", "c", bangumi.DefaultConcurrency, "maximum concurrent requests")

	for _, c := range []*cobra.Command{subjectSearchCmd, subjectListCmd} {
		c.Flags().StringVarP(&filterExpr, "where", "w", "", "filter expression applied to the returned page")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
		c.Flags().Uint64Var(&limit, "limit", 0, "maximum number of results")
		c.Flags().Uint64Var(&offset, "offset", 0, "number of results to skip")
	}

	subjectSearchCmd.Flags().StringVar(&searchSort, "sort", string(bangumi.DefaultSortType), "sort order: match, heat, rank or score")
	subjectSearchCmd.Flags().StringSliceVarP(&searchTypes, "type", "t", nil, "subject type, repeatable")
	subjectSearchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "tag, repeatable")
	subjectSearchCmd.Flags().StringSliceVar(&searchAirDate, "air-date", nil, "air date condition, repeatable")
	subjectSearchCmd.Flags().StringSliceVar(&searchRating, "rating", nil, "rating condition, repeatable")
	subjectSearchCmd.Flags().StringSliceVar(&searchRank, "rank", nil, "rank condition, repeatable")
	subjectSearchCmd.Flags().BoolVar(&searchNSFW, "nsfw", false, "only NSFW subjects (false excludes them)")

	subjectListCmd.Flags().StringVarP(&listType, "type", "t", "", "subject type (required)")
	subjectListCmd.Flags().StringVar(&listCategory, "cat", "", "category name or code for the type")
	subjectListCmd.Flags().BoolVar(&listSeries, "series", false, "only series main entries (books)")
	subjectListCmd.Flags().StringVar(&listPlatform, "platform", "", "platform, e.g. Web")
	subjectListCmd.Flags().StringVar(&listSort, "sort", "", "sort order: date or rank")
	subjectListCmd.Flags().IntVar(&listYear, "year", 0, "release year")
	subjectListCmd.Flags().IntVar(&listMonth, "month", 0, "release month, requires --year")
	_ = subjectListCmd.MarkFlagRequired("type")

	for _, c := range []*cobra.Command{subjectImageCmd, characterImageCmd, personImageCmd, userAvatarCmd} {
		c.Flags().StringVar(&imageSize, "size", string(bangumi.ImageLarge), "image size")
		c.Flags().StringVarP(&imageFile, "file", "f", "", "write the image to this file")
	}
}

func runSubjectGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		subject, err := client.GetSubject(cmd.Context(), ids[0])
		if err != nil {
			return fmt.Errorf("failed to get subject: %w", err)
		}
		return render(cmd.OutOrStdout(), subject, func(w io.Writer) {
			printSubject(w, subject)
		})
	}

	subjects, err := client.GetSubjectsByID(cmd.Context(), ids, concurrency)
	if err != nil {
		return fmt.Errorf("failed to get subjects: %w", err)
	}

	values := lo.Map(subjects, func(s *bangumi.Subject, _ int) bangumi.Subject { return *s })
	return render(cmd.OutOrStdout(), values, func(w io.Writer) {
		printSubjects(w, values)
	})
}

func runSubjectSearch(cmd *cobra.Command, args []string) error {
	local, err := resolveFilter(filterExpr, preset)
	if err != nil {
		return err
	}

	sort, err := bangumi.ParseSortType(searchSort)
	if err != nil {
		return err
	}

	fb := bangumi.NewSearchSubjectsFilter()
	for _, name := range searchTypes {
		t, err := parseSubjectType(name)
		if err != nil {
			return err
		}
		fb.Type(t)
	}
	for _, tag := range searchTags {
		fb.Tag(tag)
	}
	for _, cond := range searchAirDate {
		fb.AirDate(cond)
	}
	for _, cond := range searchRating {
		fb.Rating(cond)
	}
	for _, cond := range searchRank {
		fb.Rank(cond)
	}
	if cmd.Flags().Changed("nsfw") {
		fb.NSFW(searchNSFW)
	}

	b := client.SearchSubjects().
		Keyword(args[0]).
		Sort(sort).
		Filter(fb.Build())
	if cmd.Flags().Changed("limit") {
		b.Limit(limit)
	}
	if cmd.Flags().Changed("offset") {
		b.Offset(offset)
	}

	logger.Debug().Str("keyword", args[0]).Str("sort", string(sort)).Msg("Searching subjects")

	page, err := b.Send(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to search subjects: %w", err)
	}

	return renderSubjectPage(cmd, page, local)
}

func runSubjectList(cmd *cobra.Command, args []string) error {
	local, err := resolveFilter(filterExpr, preset)
	if err != nil {
		return err
	}

	t, err := parseSubjectType(listType)
	if err != nil {
		return err
	}

	b := client.ListSubjects().Type(t)
	if listCategory != "" {
		cat, err := parseCategory(t, listCategory)
		if err != nil {
			return err
		}
		b.Category(cat)
	}
	if cmd.Flags().Changed("series") {
		b.Series(listSeries)
	}
	if listPlatform != "" {
		b.Platform(listPlatform)
	}
	if listSort != "" {
		b.Sort(bangumi.ListSubjectsSort(listSort))
	}
	if listYear != 0 {
		b.Year(listYear)
	}
	if listMonth != 0 {
		b.Month(listMonth)
	}
	if cmd.Flags().Changed("limit") {
		b.Limit(limit)
	}
	if cmd.Flags().Changed("offset") {
		b.Offset(offset)
	}

	page, err := b.Send(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}

	return renderSubjectPage(cmd, page, local)
}

func renderSubjectPage(cmd *cobra.Command, page *bangumi.PagedSubject, local filter.CompiledFilter) error {
	var err error
	if local != nil {
		page.Data, err = applyFilter(cmd.Context(), local, page.Data)
		if err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), page, func(w io.Writer) {
		if len(page.Data) == 0 {
			fmt.Fprintln(w, "No subjects found.")
			return
		}
		printSubjects(w, page.Data)
		printPaging(w, page.Total, page.Offset, len(page.Data))
	})
}

func runSubjectPersons(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	persons, err := client.GetSubjectPersons(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get subject persons: %w", err)
	}

	return render(cmd.OutOrStdout(), persons, func(w io.Writer) {
		printTable(w, []string{"ID", "Name", "Relation", "Episodes"}, func(add func(...string)) {
			for _, p := range persons {
				add(uitoa(p.ID), p.Name, p.Relation, p.Eps)
			}
		})
	})
}

func runSubjectCharacters(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	characters, err := client.GetSubjectCharacters(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get subject characters: %w", err)
	}

	return render(cmd.OutOrStdout(), characters, func(w io.Writer) {
		printTable(w, []string{"ID", "Name", "Relation", "Actors"}, func(add func(...string)) {
			for _, c := range characters {
				actors := lo.Map(c.Actors, func(p bangumi.Person, _ int) string { return p.Name })
				add(uitoa(c.ID), c.Name, c.Relation, joinOrDash(actors))
			}
		})
	})
}

func runSubjectRelations(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	relations, err := client.GetSubjectRelations(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get subject relations: %w", err)
	}

	return render(cmd.OutOrStdout(), relations, func(w io.Writer) {
		printTable(w, []string{"ID", "Type", "Name", "Relation"}, func(add func(...string)) {
			for _, r := range relations {
				name := lo.Ternary(r.NameCN != "", r.NameCN, r.Name)
				add(uitoa(r.ID), r.Type.String(), name, r.Relation)
			}
		})
	})
}
