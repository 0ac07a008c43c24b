package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/bangumi"
)

// personCmd groups the person commands
var personCmd = &cobra.Command{
	Use:     "person",
	Aliases: []string{"persons", "p"},
	Short:   "Look up persons",
}

var personGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonGet,
}

var personImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Download a person's portrait",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImage(cmd, args[0], client.GetPersonImage)
	},
}

var personSubjectsCmd = &cobra.Command{
	Use:   "subjects <id>",
	Short: "List the subjects a person worked on",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonSubjects,
}

var personCharactersCmd = &cobra.Command{
	Use:   "characters <id>",
	Short: "List the characters a person voiced",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonCharacters,
}

func init() {
	rootCmd.AddCommand(personCmd)
	personCmd.AddCommand(personGetCmd, personImageCmd, personSubjectsCmd, personCharactersCmd)
}

func runPersonGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	person, err := client.GetPerson(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get person: %w", err)
	}

	return render(cmd.OutOrStdout(), person, func(w io.Writer) {
		printDetails(w, func(add func(key, value string)) {
			add("ID", uitoa(person.ID))
			add("Name", person.Name)
			add("Type", person.Type.String())
			careers := lo.Map(person.Career, func(c bangumi.PersonCareer, _ int) string { return string(c) })
			add("Career", strings.Join(careers, ", "))
			addProfile(add, person.Gender, person.BloodType, person.BirthYear, person.BirthMonth, person.BirthDay)
			add("Collects", uitoa(person.Stat.Collects))
			add("Last modified", person.LastModified)
			addInfobox(add, person.Infobox)
		})
		printSummary(w, person.Summary)
	})
}

func runPersonSubjects(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	subjects, err := client.GetPersonSubjects(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get person subjects: %w", err)
	}

	return render(cmd.OutOrStdout(), subjects, func(w io.Writer) {
		printRelatedSubjects(w, subjects)
	})
}

func runPersonCharacters(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	characters, err := client.GetPersonCharacters(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get person characters: %w", err)
	}

	return render(cmd.OutOrStdout(), characters, func(w io.Writer) {
		printTable(w, []string{"ID", "Name", "Subject", "Role"}, func(add func(...string)) {
			for _, c := range characters {
				subject := lo.Ternary(c.SubjectNameCN != "", c.SubjectNameCN, c.SubjectName)
				add(uitoa(c.ID), c.Name, fmt.Sprintf("%s (%d)", subject, c.SubjectID), lo.FromPtr(c.Staff))
			}
		})
	})
}
