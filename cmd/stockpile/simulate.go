package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/stockpile/internal/logging"
	"github.com/gravitas-games/stockpile/internal/scenario"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a quick stack scenario",
	Long:  `Loads a scenario file, quick stacks its source inventory into its containers and prints the moves and final contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")
		level, _ := cmd.Flags().GetString("log-level")
		return runSimulate(cmd.OutOrStdout(), cmd.ErrOrStderr(), file, level, asJSON)
	},
}

func init() {
	simulateCmd.Flags().StringP("file", "f", "", "Scenario YAML file")
	simulateCmd.Flags().Bool("json", false, "Print the outcome as JSON")
	_ = simulateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(out, errOut io.Writer, file, level string, asJSON bool) error {
	logger, err := logging.NewWithWriter(level, errOut)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sc, err := scenario.Load(file)
	if err != nil {
		return err
	}
	outcome, err := sc.Run(logger, nil)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	return printOutcome(out, outcome)
}

func printOutcome(out io.Writer, o *scenario.Outcome) error {
	if o.Name != "" {
		fmt.Fprintf(out, "Scenario: %s\n", o.Name)
	}
	res := o.Result
	if !res.AnyItemsMoved() {
		fmt.Fprintln(out, "Nothing moved.")
	} else {
		fmt.Fprintf(out, "Moved %d units from slots %v\n\n", res.UnitsMoved(), res.ChangedSourceIndexes())
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FROM\tTO\tSLOT\tITEM\tQTY\tMODE")
		for _, m := range res.Moves() {
			mode := "new"
			if m.Merged {
				mode = "merge"
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\n", m.SourceSlot, m.ContainerID, m.TargetSlot, itemLabel(m.Item, m.Quality), m.Qty, mode)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	printSnapshot(out, "source", o.Source)
	for _, c := range o.Containers {
		label := fmt.Sprintf("%s (%s)", c.ID, c.Kind)
		if !c.Eligible {
			label += " [skipped]"
		}
		printSnapshot(out, label, c.Inventory)
	}
	return nil
}

func printSnapshot(out io.Writer, label string, ss inventory.Snapshot) {
	fmt.Fprintf(out, "%s: %d/%d slots\n", label, len(ss.Slots), ss.Size)
	for _, s := range ss.Slots {
		fmt.Fprintf(out, "  [%d] %s %d/%d\n", s.Index, itemLabel(s.Item, s.Quality), s.Qty, s.StackMax)
	}
}

func itemLabel(item inventory.ItemID, quality int) string {
	if quality == 0 {
		return string(item)
	}
	return fmt.Sprintf("%s+%d", item, quality)
}
