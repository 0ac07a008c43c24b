package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/bangumi"
)

// characterCmd groups the character commands
var characterCmd = &cobra.Command{
	Use:     "character",
	Aliases: []string{"characters", "c"},
	Short:   "Look up characters",
}

var characterGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a character",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterGet,
}

var characterImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Download a character's portrait",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImage(cmd, args[0], client.GetCharacterImage)
	},
}

var characterSubjectsCmd = &cobra.Command{
	Use:   "subjects <id>",
	Short: "List the subjects a character appears in",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterSubjects,
}

var characterPersonsCmd = &cobra.Command{
	Use:   "persons <id>",
	Short: "List the voice actors of a character",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterPersons,
}

func init() {
	rootCmd.AddCommand(characterCmd)
	characterCmd.AddCommand(characterGetCmd, characterImageCmd, characterSubjectsCmd, characterPersonsCmd)
}

func runCharacterGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	character, err := client.GetCharacter(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get character: %w", err)
	}

	return render(cmd.OutOrStdout(), character, func(w io.Writer) {
		printDetails(w, func(add func(key, value string)) {
			add("ID", uitoa(character.ID))
			add("Name", character.Name)
			add("Type", character.Type.String())
			addProfile(add, character.Gender, character.BloodType, character.BirthYear, character.BirthMonth, character.BirthDay)
			add("Collects", uitoa(character.Stat.Collects))
			addInfobox(add, character.Infobox)
		})
		printSummary(w, character.Summary)
	})
}

func runCharacterSubjects(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	subjects, err := client.GetCharacterSubjects(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get character subjects: %w", err)
	}

	return render(cmd.OutOrStdout(), subjects, func(w io.Writer) {
		printRelatedSubjects(w, subjects)
	})
}

func runCharacterPersons(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	persons, err := client.GetCharacterPersons(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get character persons: %w", err)
	}

	return render(cmd.OutOrStdout(), persons, func(w io.Writer) {
		printTable(w, []string{"ID", "Name", "Subject"}, func(add func(...string)) {
			for _, p := range persons {
				subject := lo.Ternary(p.SubjectNameCN != "", p.SubjectNameCN, p.SubjectName)
				add(uitoa(p.ID), p.Name, fmt.Sprintf("%s (%d)", subject, p.SubjectID))
			}
		})
	})
}

func printRelatedSubjects(w io.Writer, subjects []bangumi.RelatedSubject) {
	printTable(w, []string{"ID", "Type", "Name", "Role"}, func(add func(...string)) {
		for _, s := range subjects {
			name := lo.Ternary(s.NameCN != "", s.NameCN, s.Name)
			add(uitoa(s.ID), s.Type.String(), name, s.Staff)
		}
	})
}

// addProfile adds the optional personal fields shared by characters and
// persons
func addProfile(add func(key, value string), gender *string, blood *bangumi.BloodType, year *uint16, month, day *uint8) {
	add("Gender", lo.FromPtr(gender))
	if blood != nil {
		add("Blood type", blood.String())
	}

	var birthday []string
	if year != nil {
		birthday = append(birthday, fmt.Sprintf("%04d", *year))
	}
	if month != nil {
		birthday = append(birthday, fmt.Sprintf("%02d", *month))
	}
	if day != nil {
		birthday = append(birthday, fmt.Sprintf("%02d", *day))
	}
	add("Birthday", strings.Join(birthday, "-"))
}
